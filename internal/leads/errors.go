package leads

import "errors"

var (
	// ErrMissingMerchantID is returned when no merchant scope is present.
	ErrMissingMerchantID = errors.New("merchant_id is required")

	// ErrInvalidName is returned when the name is missing.
	ErrInvalidName = errors.New("name is required")

	// ErrMissingContact is returned when both phone and email are missing.
	ErrMissingContact = errors.New("either phone or email is required")

	// ErrLeadNotFound is returned when a lead is not found.
	ErrLeadNotFound = errors.New("lead not found")
)
