package domain

import "errors"

var (
	ErrInvalidCapacity = errors.New("max capacity must be greater than zero")
	ErrInvalidFilter   = errors.New("invalid filter value")
	ErrInvalidCommand  = errors.New("invalid command")
	ErrCommandInFlight = errors.New("command already in flight")
	ErrInvalidSession  = errors.New("invalid session")
	ErrStoreNotFound   = errors.New("store not found")
	ErrBackendStatus   = errors.New("unexpected backend status")
)
