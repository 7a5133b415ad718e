package usecase

// Context keys for error values
const (
	ViewerIDKey   = "viewer_id"
	ViewerRoleKey = "viewer_role"
	AttemptKey    = "attempt"
)
