package types

// Identification classifies a risk as inherent (before controls) or residual
type Identification string

const (
	IdentificationInherent Identification = "Inherent risk"
	IdentificationResidual Identification = "Residual risk"
)

// AllIdentifications returns all valid identifications
func AllIdentifications() []Identification {
	return []Identification{
		IdentificationInherent,
		IdentificationResidual,
	}
}

// IsValid checks if the identification is valid. Empty means unclassified
// and is accepted.
func (i Identification) IsValid() bool {
	switch i {
	case "", IdentificationInherent, IdentificationResidual:
		return true
	default:
		return false
	}
}

// String returns the string representation of Identification
func (i Identification) String() string {
	return string(i)
}

// ParseIdentification parses a string into an Identification. An empty
// string yields the unclassified value.
func ParseIdentification(s string) (Identification, error) {
	if s == "" {
		return "", nil
	}
	return parseEnum("identification", s, AllIdentifications())
}
