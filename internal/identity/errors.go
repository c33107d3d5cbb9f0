package identity

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAllowed         = errors.New("you are not authorized to perform this action")
	ErrNameTooShort       = errors.New("name should not be less than 3 characters")
	ErrPasswordTooShort   = errors.New("password should not be less than 8 characters")
	ErrInvalidRole        = errors.New("invalid role")
)
