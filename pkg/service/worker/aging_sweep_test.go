package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
	"github.com/secmon-lab/riskledger/pkg/repository/memory"
	"github.com/secmon-lab/riskledger/pkg/service/worker"
	"github.com/secmon-lab/riskledger/pkg/usecase"
)

type mockSweeper struct {
	calls atomic.Int32
	err   error
	ran   chan struct{}
}

func newMockSweeper() *mockSweeper {
	return &mockSweeper{ran: make(chan struct{}, 100)}
}

func (m *mockSweeper) RunAgingSweep(ctx context.Context) (int, error) {
	m.calls.Add(1)
	select {
	case m.ran <- struct{}{}:
	default:
	}
	return 0, m.err
}

func waitRun(t *testing.T, m *mockSweeper) {
	t.Helper()
	select {
	case <-m.ran:
	case <-time.After(5 * time.Second):
		t.Fatal("sweep did not run")
	}
}

func TestAgingSweepWorker_StartupOnly(t *testing.T) {
	sweeper := newMockSweeper()
	w := worker.NewAgingSweepWorker(sweeper, 0)

	gt.NoError(t, w.Start(context.Background())).Required()
	// a second start does not spawn another loop
	gt.NoError(t, w.Start(context.Background())).Required()
	waitRun(t, sweeper)
	w.Stop()
	w.Stop()

	gt.Number(t, sweeper.calls.Load()).Equal(1)
}

func TestAgingSweepWorker_Periodic(t *testing.T) {
	sweeper := newMockSweeper()
	sweeper.err = errors.New("store down")
	w := worker.NewAgingSweepWorker(sweeper, 10*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	waitRun(t, sweeper)
	waitRun(t, sweeper)
	waitRun(t, sweeper)
	w.Stop()

	gt.Number(t, sweeper.calls.Load()).GreaterOrEqual(3)
}

func TestAgingSweepWorker_ContextCancel(t *testing.T) {
	sweeper := newMockSweeper()
	w := worker.NewAgingSweepWorker(sweeper, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	gt.NoError(t, w.Start(ctx)).Required()
	waitRun(t, sweeper)
	cancel()
	w.Stop()

	gt.Number(t, sweeper.calls.Load()).Equal(1)
}

func TestAgingSweepWorker_AgesRisks(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	now := time.Now().UTC()

	risk, err := repo.Risk().Create(ctx, &model.Risk{
		ID:         model.NewRiskID(),
		RiskNo:     "R001",
		Department: "IT",
		Name:       "Data breach",
		Impact:     types.ImpactModerate,
		Likelihood: types.LikelihoodPossible,
		Status:     types.RiskStatusOpen,
		OwnerID:    model.NewOwnerID(),
		CreatedAt:  now.Add(-40 * 24 * time.Hour),
		UpdatedAt:  now.Add(-40 * 24 * time.Hour),
	})
	gt.NoError(t, err).Required()

	uc := usecase.New(repo)
	w := worker.NewAgingSweepWorker(uc.Risk, 0)
	gt.NoError(t, w.Start(ctx)).Required()

	deadline := time.Now().Add(5 * time.Second)
	for {
		got, err := repo.Risk().Get(ctx, risk.ID)
		gt.NoError(t, err).Required()
		if got.Status == types.RiskStatusExisting {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("risk was not aged")
		}
		time.Sleep(10 * time.Millisecond)
	}
	w.Stop()
}

func TestAgingSweepWorker_WithoutStartupSweep(t *testing.T) {
	sweeper := newMockSweeper()
	w := worker.NewAgingSweepWorker(sweeper, 20*time.Millisecond, worker.WithStartupSweep(false))

	start := time.Now()
	gt.NoError(t, w.Start(context.Background())).Required()
	waitRun(t, sweeper)
	w.Stop()

	// first run comes from the ticker
	gt.Bool(t, time.Since(start) >= 20*time.Millisecond).True()
}

func TestAgingSweepWorker_RequiresSweeper(t *testing.T) {
	w := worker.NewAgingSweepWorker(nil, time.Minute)
	gt.Error(t, w.Start(context.Background()))
}
