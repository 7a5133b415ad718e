package types

// Impact represents how severe the consequence of a risk is
type Impact string

const (
	ImpactSevere      Impact = "Severe"
	ImpactSignificant Impact = "Significant"
	ImpactModerate    Impact = "Moderate"
	ImpactMinor       Impact = "Minor"
	ImpactNegligible  Impact = "Negligible"
)

// AllImpacts returns all valid impacts, most severe first
func AllImpacts() []Impact {
	return []Impact{
		ImpactSevere,
		ImpactSignificant,
		ImpactModerate,
		ImpactMinor,
		ImpactNegligible,
	}
}

// IsValid checks if the impact is valid
func (i Impact) IsValid() bool {
	switch i {
	case ImpactSevere,
		ImpactSignificant,
		ImpactModerate,
		ImpactMinor,
		ImpactNegligible:
		return true
	default:
		return false
	}
}

// String returns the string representation of Impact
func (i Impact) String() string {
	return string(i)
}

// ParseImpact parses a string into an Impact
func ParseImpact(s string) (Impact, error) {
	return parseEnum("impact", s, AllImpacts())
}

// ImpactFromLevel maps the legacy single "level" rating to an impact.
// Unknown or empty levels map to ImpactModerate.
func ImpactFromLevel(level string) Impact {
	switch level {
	case "Critical":
		return ImpactSevere
	case "High":
		return ImpactSignificant
	case "Medium":
		return ImpactModerate
	case "Low":
		return ImpactMinor
	default:
		return ImpactModerate
	}
}
