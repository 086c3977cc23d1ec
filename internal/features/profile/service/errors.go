package service

import "errors"

var (
	// ErrMissingCredentials means the request carried no identifying header
	// at all.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrInvalidCredentials means a credential was supplied but matched no
	// user.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
