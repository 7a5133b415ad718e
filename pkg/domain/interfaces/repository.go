package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Risk() RiskRepository
	History() HistoryRepository
	Owner() OwnerRepository
	User() UserRepository
	Incident() IncidentRepository
	Sweep() SweepRepository

	Close() error
}
