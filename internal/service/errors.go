package service

import "errors"

// Precondition errors. Surfaced to the caller, never retried automatically,
// never applied partially.
var (
	ErrInvalidDurationRange     = errors.New("min duration exceeds max duration")
	ErrInvalidListingPrice      = errors.New("listing price must be positive")
	ErrDurationOutOfRange       = errors.New("duration outside listing bounds")
	ErrInsufficientFunds        = errors.New("insufficient funds for price plus collateral")
	ErrAssetUnavailable         = errors.New("asset already has an open rental")
	ErrTooEarly                 = errors.New("rental period has not ended")
	ErrRecoveryPeriodNotReached = errors.New("recovery grace period has not elapsed")
	ErrCancelWindowPassed       = errors.New("cancellation grace window has passed")
	ErrDisputeWindowClosed      = errors.New("dispute window has closed")
	ErrInvalidWindow            = errors.New("stop time must be after start time")
	ErrInvalidDeposit           = errors.New("deposit must be positive")
	ErrExceedsAvailable         = errors.New("amount exceeds withdrawable balance")
	ErrNotActive                = errors.New("stream is not active")
	ErrAlreadyFinalized         = errors.New("stream already finalized")
	ErrInvalidState             = errors.New("operation not valid in current state")
)

// Authorization errors. Operation fully rejected.
var (
	ErrNotAssetOwner      = errors.New("caller does not hold rights to asset")
	ErrBlacklisted        = errors.New("user is blacklisted")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)
