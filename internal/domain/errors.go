package domain

import "errors"

// Sentinel errors returned by the core so the transport layer can map them
// to status codes without inspecting error text.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflicting state")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
)
