package model

import "github.com/secmon-lab/riskledger/pkg/domain/types"

// NeedsNormalization reports whether r was written by an older schema
func NeedsNormalization(r *Risk) bool {
	return r.Impact == "" || r.Likelihood == ""
}

// NormalizeRisk upgrades a legacy record. The returned bool reports whether
// anything changed. Records that already carry both impact and likelihood are
// returned as is, which makes the function idempotent.
func NormalizeRisk(r *Risk) (*Risk, bool) {
	if !NeedsNormalization(r) {
		return r, false
	}

	normalized := r.Clone()
	if normalized.Impact == "" {
		normalized.Impact = types.ImpactFromLevel(normalized.Level)
	}
	if normalized.Likelihood == "" {
		normalized.Likelihood = types.LikelihoodPossible
	}
	if normalized.Status == "" {
		normalized.Status = types.RiskStatusNew
	}
	normalized.Level = ""
	return normalized, true
}

// NormalizeRisks applies NormalizeRisk to every record and returns the
// resulting collection together with the number of upgraded records.
func NormalizeRisks(risks []*Risk) ([]*Risk, int) {
	result := make([]*Risk, len(risks))
	changed := 0
	for i, r := range risks {
		n, ok := NormalizeRisk(r)
		if ok {
			changed++
		}
		result[i] = n
	}
	return result, changed
}
