package errorkinds

import "errors"

// The different general error types.
var (
	ErrRange            = errors.New("value out of range")
	ErrInvalidLength    = errors.New("invalid byte length")
	ErrInvalidCharacter = errors.New("character cannot be encoded in a single byte")

	ErrUnrecognizedScheme = errors.New("unrecognized URL scheme")

	ErrInvalidAddress  = errors.New("invalid Bluetooth address")
	ErrAdapterNotFound = errors.New("no Bluetooth adapter found")
	ErrDeviceNotFound  = errors.New("Bluetooth device not found")

	ErrInvalidConfig = errors.New("invalid configuration value")
)

// GenericError wraps an error returned by the Bluez daemon
// along with the context it was raised in.
type GenericError struct {
	// Errors stores all associated errors.
	Errors error `json:"errors,omitempty"`
}

// Error returns the formatted error as string.
func (e GenericError) Error() string {
	return e.Errors.Error()
}

// Unwrap unwraps all errors associated with this error.
func (e GenericError) Unwrap() error {
	return e.Errors
}
