package domain

import "errors"

// Errors reported by repository implementations. The Logic layer translates
// them into its own sentinel errors.
var (
	ErrNotFound       = errors.New("record not found")
	ErrNotOwner       = errors.New("record owned by another user")
	ErrDuplicate      = errors.New("duplicate record")
	ErrAggregateWrite = errors.New("recipe details write failed")
)
