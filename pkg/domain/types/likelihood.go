package types

// Likelihood represents how probable it is that a risk materializes
type Likelihood string

const (
	LikelihoodVeryLikely   Likelihood = "Very likely"
	LikelihoodLikely       Likelihood = "Likely"
	LikelihoodPossible     Likelihood = "Possible"
	LikelihoodUnlikely     Likelihood = "Unlikely"
	LikelihoodVeryUnlikely Likelihood = "Very Unlikely"
)

// AllLikelihoods returns all valid likelihoods, most probable first
func AllLikelihoods() []Likelihood {
	return []Likelihood{
		LikelihoodVeryLikely,
		LikelihoodLikely,
		LikelihoodPossible,
		LikelihoodUnlikely,
		LikelihoodVeryUnlikely,
	}
}

// IsValid checks if the likelihood is valid
func (l Likelihood) IsValid() bool {
	switch l {
	case LikelihoodVeryLikely,
		LikelihoodLikely,
		LikelihoodPossible,
		LikelihoodUnlikely,
		LikelihoodVeryUnlikely:
		return true
	default:
		return false
	}
}

// String returns the string representation of Likelihood
func (l Likelihood) String() string {
	return string(l)
}

// ParseLikelihood parses a string into a Likelihood
func ParseLikelihood(s string) (Likelihood, error) {
	return parseEnum("likelihood", s, AllLikelihoods())
}
