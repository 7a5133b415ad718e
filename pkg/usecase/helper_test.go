package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/model/config"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
	"github.com/secmon-lab/riskledger/pkg/repository/memory"
	"github.com/secmon-lab/riskledger/pkg/usecase"
)

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(now time.Time) *testClock {
	return &testClock{now: now}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	repo  *memory.Memory
	clock *testClock
	uc    *usecase.UseCases
}

func newTestEnv(t *testing.T, opts ...usecase.Option) *testEnv {
	t.Helper()

	repo := memory.New()
	clock := newTestClock(baseTime)
	opts = append([]usecase.Option{usecase.WithClock(clock.Now)}, opts...)
	return &testEnv{
		repo:  repo,
		clock: clock,
		uc:    usecase.New(repo, opts...),
	}
}

func newUser(id string, role types.Role, department string) *model.User {
	return &model.User{
		ID:         model.UserID(id),
		Name:       id,
		Email:      id + "@example.com",
		Role:       role,
		Department: department,
	}
}

func (e *testEnv) register(t *testing.T, user *model.User) *model.User {
	t.Helper()
	registered, err := e.uc.User.RegisterUser(context.Background(), user)
	gt.NoError(t, err).Required()
	return registered
}

func riskInput(name string) model.RiskInput {
	return model.RiskInput{
		Name:       name,
		Impact:     types.ImpactModerate,
		Likelihood: types.LikelihoodPossible,
	}
}

func (e *testEnv) createRisk(t *testing.T, creator *model.User, input model.RiskInput) *model.Risk {
	t.Helper()
	risk, err := e.uc.Risk.CreateRisk(context.Background(), input, creator)
	gt.NoError(t, err).Required()
	return risk
}

// seedRisk stores a risk directly, bypassing creation rules
func (e *testEnv) seedRisk(t *testing.T, risk *model.Risk) *model.Risk {
	t.Helper()
	if risk.ID == "" {
		risk.ID = model.NewRiskID()
	}
	if risk.OwnerID == "" {
		risk.OwnerID = model.NewOwnerID()
	}
	if risk.UpdatedAt.IsZero() {
		risk.UpdatedAt = risk.CreatedAt
	}
	created, err := e.repo.Risk().Create(context.Background(), risk)
	gt.NoError(t, err).Required()
	return created
}

func policyWith(modify func(p *config.Policy)) *config.Policy {
	p := config.DefaultPolicy()
	modify(p)
	return p
}
