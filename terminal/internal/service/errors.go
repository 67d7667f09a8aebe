package service

import "errors"

var (
	ErrNoItems            = errors.New("select at least one product with quantity > 0")
	ErrNoTable            = errors.New("select a table")
	ErrSubmitInFlight     = errors.New("order submission already in progress")
	ErrQuantityOutOfRange = errors.New("quantity out of range")
	ErrUnknownProduct     = errors.New("unknown product")
	ErrUnknownTable       = errors.New("unknown table")
	ErrUnknownSeat        = errors.New("seat not available for this table")
	ErrInvalidCourse      = errors.New("invalid course")
	ErrDraftNotFound      = errors.New("draft not found")
	ErrDraftNotReady      = errors.New("draft is still loading")
	ErrDraftFailed        = errors.New("draft failed to load")
	ErrDraftClosed        = errors.New("draft is closed")

	ErrInvalidStatus            = errors.New("invalid table status")
	ErrInvalidTransition        = errors.New("table status change not allowed")
	ErrTableDirty               = errors.New("table is dirty, free it before ordering")
	ErrInvalidCapacity          = errors.New("capacity must be at least 1")
	ErrCapacityBelowReservation = errors.New("capacity is below the active reservation's party size")
	ErrMovementLocked           = errors.New("table movement is locked")
	ErrFinalStage               = errors.New("order is already at its final stage")

	ErrMissingRefreshToken = errors.New("missing refresh token")
	ErrNoExpiry            = errors.New("token has no expiry")
	ErrNoToken             = errors.New("refresh response carried no token")
)
