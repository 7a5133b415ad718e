package types

import "github.com/m-mizutani/goerr/v2"

// ErrInvalidEnum is returned when a value is outside of its closed set
var ErrInvalidEnum = goerr.New("value is not a member of the enumeration")

// Context keys for error values
const (
	EnumKey  = "enum"
	ValueKey = "value"
)

func parseEnum[T ~string](kind string, s string, all []T) (T, error) {
	for _, v := range all {
		if string(v) == s {
			return v, nil
		}
	}
	var zero T
	return zero, goerr.Wrap(ErrInvalidEnum, "invalid "+kind,
		goerr.V(EnumKey, kind),
		goerr.V(ValueKey, s))
}
