package service

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrModelNotFound   = errors.New("nlu model not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidAPIKey   = errors.New("invalid api key")
	ErrForbidden       = errors.New("insufficient permissions")
)
