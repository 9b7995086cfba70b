package domain

import "errors"

// Common domain errors
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrInternal           = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserInactive      = errors.New("user account is inactive")
)

// Report errors
var (
	ErrReportNotFound = errors.New("report not found")
	// ErrDuplicateReportID surfaces when sequential ID assignment loses the
	// race against a concurrent create. The caller is expected to retry.
	ErrDuplicateReportID = errors.New("report id already assigned")
	ErrUnknownCategory   = errors.New("unknown report category")
)

// Bill errors
var (
	ErrBillNotFound = errors.New("bill not found")
)
