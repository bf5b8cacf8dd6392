package service

import "errors"

var (
	ErrInvalidJSON    = errors.New("invalid json")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrStoreFailed    = errors.New("store failed")
)
