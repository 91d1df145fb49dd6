package auth

import "errors"

// ErrPhoneExists indicates a duplicate phone number.
var ErrPhoneExists = errors.New("phone already registered")
