package handlers

import "errors"

// Engine error taxonomy. Precondition failures are always reported before
// any mutation; anything else rolls back the whole transaction, so callers
// never observe a partially-applied write. HTTP handlers map these with
// errors.Is; wrapped storage errors fall through as 500s.
var (
	ErrMaterialNotFound     = errors.New("material not found")
	ErrRequestNotFound      = errors.New("no order requests found")
	ErrRequestNotPending    = errors.New("order request is not pending")
	ErrInsufficientQuantity = errors.New("insufficient quantity available")
	ErrEditConflict         = errors.New("material is currently being edited by another user")
	ErrSameProject          = errors.New("cannot transfer to the same project")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
)
