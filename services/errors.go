package services

import "errors"

// Sentinel errors the handlers translate into HTTP statuses.
var (
	ErrPlanNotFound          = errors.New("plan not found")
	ErrInvalidAmount         = errors.New("plan has an invalid price")
	ErrNoActiveSubscription  = errors.New("no active subscription")
	ErrQuotaExceeded         = errors.New("dataset quota exceeded")
	ErrInvalidSignature      = errors.New("invalid payment signature")
	ErrPaymentsNotConfigured = errors.New("payment gateway is not configured")
)
