package memory

import (
	"github.com/secmon-lab/riskledger/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	risk     *riskRepository
	history  *historyRepository
	owner    *ownerRepository
	user     *userRepository
	incident *incidentRepository
	sweep    *sweepRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		risk:     newRiskRepository(),
		history:  newHistoryRepository(),
		owner:    newOwnerRepository(),
		user:     newUserRepository(),
		incident: newIncidentRepository(),
		sweep:    newSweepRepository(),
	}
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) History() interfaces.HistoryRepository {
	return m.history
}

func (m *Memory) Owner() interfaces.OwnerRepository {
	return m.owner
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Incident() interfaces.IncidentRepository {
	return m.incident
}

func (m *Memory) Sweep() interfaces.SweepRepository {
	return m.sweep
}

func (m *Memory) Close() error {
	return nil
}
