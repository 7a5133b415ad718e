package config_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/cli/config"
)

func TestRepositoryConfigure(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest(config.BackendMemory, "").Configure(ctx)
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		dsn := filepath.Join(t.TempDir(), "riskledger.db")
		repo, err := config.NewRepositoryForTest(config.BackendSQLite, dsn).Configure(ctx)
		gt.NoError(t, err).Required()
		defer func() { gt.NoError(t, repo.Close()) }()

		nos, err := repo.Risk().ListRiskNos(ctx, "IT")
		gt.NoError(t, err).Required()
		gt.Array(t, nos).Length(0)
	})

	t.Run("relational backend requires dsn", func(t *testing.T) {
		_, err := config.NewRepositoryForTest(config.BackendPostgres, "").Configure(ctx)
		gt.Error(t, err)
	})

	t.Run("firestore requires project", func(t *testing.T) {
		_, err := config.NewRepositoryForTest(config.BackendFirestore, "").Configure(ctx)
		gt.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("mysql", "").Configure(ctx)
		gt.Error(t, err)
	})
}
