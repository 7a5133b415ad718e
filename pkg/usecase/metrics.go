package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors of the risk engine
type Metrics struct {
	risksCreated       *prometheus.CounterVec
	numberingConflicts prometheus.Counter
	agingTransitions   prometheus.Counter
	historyEntries     *prometheus.CounterVec
	normalizedRisks    prometheus.Counter
}

// NewMetrics creates the collectors and registers them to reg. A nil reg
// yields working but unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		risksCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "riskledger_risks_created_total",
			Help: "Total risks created by initial status",
		}, []string{"status"}),

		numberingConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "riskledger_numbering_conflicts_total",
			Help: "Total risk number collisions that triggered a retry",
		}),

		agingTransitions: factory.NewCounter(prometheus.CounterOpts{
			Name: "riskledger_aging_transitions_total",
			Help: "Total risks moved to Existing by the aging sweep",
		}),

		historyEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "riskledger_history_entries_total",
			Help: "Total history entries appended by field",
		}, []string{"field"}),

		normalizedRisks: factory.NewCounter(prometheus.CounterOpts{
			Name: "riskledger_normalized_risks_total",
			Help: "Total legacy risks rewritten by the migration",
		}),
	}
}
