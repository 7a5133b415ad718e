package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/interfaces"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
	"github.com/secmon-lab/riskledger/pkg/repository/firestore"
	"github.com/secmon-lab/riskledger/pkg/repository/memory"
	"github.com/secmon-lab/riskledger/pkg/repository/rdb"
)

// baseTime has microsecond precision so that every backend round-trips it
var baseTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newMemoryRepository(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func newSQLiteRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	ctx := context.Background()
	repo, err := rdb.New(ctx, rdb.DialectSQLite, filepath.Join(t.TempDir(), "riskledger.db"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func newPostgresRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	// Each test gets its own schema so that runs never see each other's rows
	ctx := context.Background()
	schema := fmt.Sprintf("test_%d", time.Now().UnixNano())
	admin, err := sql.Open("pgx", dsn)
	gt.NoError(t, err).Required()
	_, err = admin.ExecContext(ctx, "CREATE SCHEMA "+schema)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		_, err := admin.ExecContext(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		gt.NoError(t, err)
		gt.NoError(t, admin.Close())
	})

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	repo, err := rdb.New(ctx, rdb.DialectPostgres, dsn+sep+"search_path="+schema)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

// runOnAllBackends runs a contract test against every repository implementation
func runOnAllBackends(t *testing.T, run func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) { run(t, newMemoryRepository) })
	t.Run("sqlite", func(t *testing.T) { run(t, newSQLiteRepository) })
	t.Run("postgres", func(t *testing.T) { run(t, newPostgresRepository) })
	t.Run("firestore", func(t *testing.T) { run(t, newFirestoreRepository) })
}

// uniqueDepartment keeps departments distinct across runs sharing a database
func uniqueDepartment(name string) string {
	return fmt.Sprintf("%s-%d", name, time.Now().UnixNano())
}

func newTestRisk(department, riskNo string, createdAt time.Time) *model.Risk {
	return &model.Risk{
		ID:              model.NewRiskID(),
		RiskNo:          riskNo,
		Department:      department,
		Name:            "Supplier outage " + riskNo,
		Description:     "Primary supplier cannot deliver",
		Impact:          types.ImpactModerate,
		Likelihood:      types.LikelihoodPossible,
		Status:          types.RiskStatusNew,
		OwnerID:         model.NewOwnerID(),
		CreatedByUserID: "u-1",
		Identification:  types.IdentificationInherent,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}
