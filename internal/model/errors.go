package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")

	// Token errors
	ErrInvalidToken = errors.New("invalid or expired token")

	// Session errors
	ErrNoSession = errors.New("no active session")
)
