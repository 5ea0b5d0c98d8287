package service

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserNotConfirmed       = errors.New("user not confirmed")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrUsernameTaken          = errors.New("username already taken")
	ErrPostNotFound           = errors.New("post not found")
	ErrCarNotFound            = errors.New("car not found")
)
