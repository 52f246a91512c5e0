package domain

import "errors"

var (
	// ErrStateCorrupt indicates the persisted wizard blob could not be decoded.
	ErrStateCorrupt = errors.New("wizard: persisted state corrupt")
	// ErrPlanNotFound signals an unknown subscription plan slug.
	ErrPlanNotFound = errors.New("catalog: plan not found")
	// ErrPricingTable indicates an inconsistent pricing table entry.
	ErrPricingTable = errors.New("catalog: pricing table inconsistent")
	// ErrMailNotConfigured signals invitation delivery without a mail endpoint.
	ErrMailNotConfigured = errors.New("mail: endpoint not configured")
)
