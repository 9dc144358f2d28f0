package domain

import "errors"

// Failure taxonomy for the account lifecycle. Handlers translate these with
// errors.Is into status codes; anything unrecognized becomes a 500.
var (
	ErrDuplicateAccount = errors.New("email already registered")
	ErrAccountNotFound  = errors.New("account not found")
	ErrInvalidOTP       = errors.New("invalid or expired otp")
	// ErrInvalidCredentials covers both an unknown email and a wrong password
	// so the login response does not leak which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongProvider      = errors.New("account uses a different sign-in provider")
	ErrNotVerified        = errors.New("email not verified")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnknownSubject     = errors.New("token subject no longer exists")
	ErrOAuthExchange      = errors.New("oauth exchange failed")
	ErrAssetNotFound      = errors.New("asset not found")
	// ErrDependencyUnavailable marks store/storage outages so the boundary can
	// answer 503 instead of a generic failure.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
