package seller

import "errors"

var (
	// -- Auth --
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingSecret      = errors.New("JWT_SECRET is not set")

	// -- Resource --
	ErrSellerNotFound = errors.New("seller not found")

	// -- Database --
	ErrFailedCreateSeller = errors.New("failed to create seller")
	ErrFailedUpdateSeller = errors.New("failed to update seller")
	ErrFailedDeleteSeller = errors.New("failed to delete seller")
)
