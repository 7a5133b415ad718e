package model

import "time"

// AgingSweepName is the watermark name used by the aging sweep
const AgingSweepName = "risk_aging"

// SweepWatermark records when a named sweep last ran. It is persisted so
// that several instances sharing one store do not sweep in the same window.
type SweepWatermark struct {
	Name        string
	LastSweptAt time.Time
}
