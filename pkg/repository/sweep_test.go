package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/interfaces"
)

func runSweepRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Claim honors the minimum interval", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		const name = "risk_aging"

		wm, err := repo.Sweep().Get(ctx, name)
		gt.NoError(t, err).Required()
		gt.Bool(t, wm.LastSweptAt.IsZero()).True()

		claimed, err := repo.Sweep().Claim(ctx, name, baseTime, time.Hour)
		gt.NoError(t, err).Required()
		gt.Bool(t, claimed).True()

		claimed, err = repo.Sweep().Claim(ctx, name, baseTime.Add(30*time.Minute), time.Hour)
		gt.NoError(t, err).Required()
		gt.Bool(t, claimed).False()

		claimed, err = repo.Sweep().Claim(ctx, name, baseTime.Add(2*time.Hour), time.Hour)
		gt.NoError(t, err).Required()
		gt.Bool(t, claimed).True()

		wm, err = repo.Sweep().Get(ctx, name)
		gt.NoError(t, err).Required()
		gt.Bool(t, wm.LastSweptAt.Equal(baseTime.Add(2*time.Hour))).True()
	})

	t.Run("Release drops only the released claim", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		const name = "risk_aging"

		gt.NoError(t, repo.Sweep().Release(ctx, name, baseTime))

		claimed, err := repo.Sweep().Claim(ctx, name, baseTime, time.Hour)
		gt.NoError(t, err).Required()
		gt.Bool(t, claimed).True()

		gt.NoError(t, repo.Sweep().Release(ctx, name, baseTime))
		wm, err := repo.Sweep().Get(ctx, name)
		gt.NoError(t, err).Required()
		gt.Bool(t, wm.LastSweptAt.IsZero()).True()

		claimed, err = repo.Sweep().Claim(ctx, name, baseTime.Add(time.Minute), time.Hour)
		gt.NoError(t, err).Required()
		gt.Bool(t, claimed).True()

		// A stale release must not drop the newer claim
		gt.NoError(t, repo.Sweep().Release(ctx, name, baseTime))
		wm, err = repo.Sweep().Get(ctx, name)
		gt.NoError(t, err).Required()
		gt.Bool(t, wm.LastSweptAt.Equal(baseTime.Add(time.Minute))).True()
	})
}

func TestSweepRepository(t *testing.T) {
	runOnAllBackends(t, runSweepRepositoryTest)
}
