package errors

import "fmt"

var (
	ErrPersistence        = fmt.Errorf("storage transaction failed")
	ErrEmptyText          = fmt.Errorf("message text is empty")
	ErrSequenceConflict   = fmt.Errorf("sequence already assigned for conversation")
	ErrInvalidIdentity    = fmt.Errorf("identity contains a reserved character")
	ErrProfileNotFound    = fmt.Errorf("participant profile not found")
	ErrEmptyWords         = fmt.Errorf("no blocked words have been provided")
	ErrInvalidSession     = fmt.Errorf("invalid session token")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
)
