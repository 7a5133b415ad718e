package usecase

import (
	"time"

	"github.com/secmon-lab/riskledger/pkg/domain/interfaces"
	"github.com/secmon-lab/riskledger/pkg/domain/model/config"
)

type UseCases struct {
	repo    interfaces.Repository
	policy  *config.Policy
	clock   func() time.Time
	metrics *Metrics

	Risk     *RiskUseCase
	Owner    *OwnerUseCase
	Incident *IncidentUseCase
	User     *UserUseCase
}

type Option func(*UseCases)

// WithPolicy overrides the default policy
func WithPolicy(policy *config.Policy) Option {
	return func(uc *UseCases) {
		uc.policy = policy
	}
}

// WithClock replaces time.Now, mainly for tests
func WithClock(clock func() time.Time) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

// WithMetrics sets the collectors updated by the use cases
func WithMetrics(metrics *Metrics) Option {
	return func(uc *UseCases) {
		uc.metrics = metrics
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:   repo,
		policy: config.DefaultPolicy(),
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.metrics == nil {
		// Unregistered collectors
		uc.metrics = NewMetrics(nil)
	}

	uc.Risk = NewRiskUseCase(repo, uc.policy, uc.clock, uc.metrics)
	uc.Owner = NewOwnerUseCase(repo, uc.policy, uc.clock)
	uc.Incident = NewIncidentUseCase(repo, uc.Risk, uc.clock)
	uc.User = NewUserUseCase(repo, uc.clock)

	return uc
}
