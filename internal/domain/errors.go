package domain

import "errors"

// ErrInvalidCredentials is returned when the authentication endpoint answers
// with a non-success status.
var ErrInvalidCredentials = errors.New("invalid credentials")
