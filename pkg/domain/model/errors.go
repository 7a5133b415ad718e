package model

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
)

// Error taxonomy shared by every layer. Repositories and use cases wrap these
// sentinels with goerr so that callers can classify failures with errors.Is.
var (
	ErrValidation           = goerr.New("validation failed")
	ErrNotFound             = goerr.New("not found")
	ErrConflict             = goerr.New("conflict")
	ErrReferentialIntegrity = goerr.New("referential integrity violation")
	ErrStoreUnavailable     = goerr.New("store unavailable")
	ErrPermissionDenied     = goerr.New("permission denied")
)

// Context keys for error values
const (
	RiskIDKey     = "risk_id"
	RiskNoKey     = "risk_no"
	OwnerIDKey    = "owner_id"
	UserIDKey     = "user_id"
	IncidentIDKey = "incident_id"
	DepartmentKey = "department"
	FieldKey      = "field"
)

// ErrorKind is a stable, transport independent classification of an error
type ErrorKind string

const (
	ErrorKindValidation           ErrorKind = "validation"
	ErrorKindNotFound             ErrorKind = "not_found"
	ErrorKindConflict             ErrorKind = "conflict"
	ErrorKindReferentialIntegrity ErrorKind = "referential_integrity"
	ErrorKindStoreUnavailable     ErrorKind = "store_unavailable"
	ErrorKindPermissionDenied     ErrorKind = "permission_denied"
	ErrorKindInternal             ErrorKind = "internal"
)

// KindOf classifies err. Unknown errors are ErrorKindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation), errors.Is(err, types.ErrInvalidEnum):
		return ErrorKindValidation
	case errors.Is(err, ErrNotFound):
		return ErrorKindNotFound
	case errors.Is(err, ErrConflict):
		return ErrorKindConflict
	case errors.Is(err, ErrReferentialIntegrity):
		return ErrorKindReferentialIntegrity
	case errors.Is(err, ErrPermissionDenied):
		return ErrorKindPermissionDenied
	case errors.Is(err, ErrStoreUnavailable):
		return ErrorKindStoreUnavailable
	default:
		return ErrorKindInternal
	}
}
