package models

import "errors"

var (
	// Credential store errors
	ErrIncompleteCredential = errors.New("token and email must be set together")

	// Router errors
	ErrUnsupportedAction  = errors.New("unsupported action")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrUnauthorizedOrigin = errors.New("unauthorized origin")

	// Tab relay errors
	ErrNoMatchingTab = errors.New("no matching tab")
	ErrRelayFailed   = errors.New("tab relay failed")

	// Screen controller errors
	ErrInvalidTransition = errors.New("invalid screen transition")

	// General errors
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternalServer = errors.New("internal server error")
)
