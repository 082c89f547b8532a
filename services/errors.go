package services

import "errors"

var (
	// Хранилище недоступно при старте
	ErrStateUnavailable = errors.New("persisted state could not be read")

	ErrInvalidScore  = errors.New("score must be a finite number")
	ErrScoreRequired = errors.New("score is required")

	// Ошибки аутентификации
	ErrAuthDisabled  = errors.New("access pin is not configured")
	ErrInvalidPIN    = errors.New("invalid access pin")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrPINRequired   = errors.New("pin is required")
	ErrSecretMissing = errors.New("jwt secret is required when an access pin is set")
)
