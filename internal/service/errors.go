package service

import (
	"errors"

	"linguaspeak/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")

	ErrUserExists       = repository.ErrUserExists
	ErrConcurrentUpdate = repository.ErrConcurrentUpdate
)
