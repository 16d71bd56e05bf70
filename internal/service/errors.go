package service

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthenticated     = errors.New("user not authenticated")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrSMSPermissionDenied = errors.New("SMS permission not granted")
	ErrLocationNotFound    = errors.New("location not found")
	ErrInvalidCategory     = errors.New("invalid incident category")
	ErrUsernameNotFound    = errors.New("username not found")
	ErrAllCategoriesFailed = errors.New("all place categories failed")
	ErrPlacesUnavailable   = errors.New("place search is not configured")
)
