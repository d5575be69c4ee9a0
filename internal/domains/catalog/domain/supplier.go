package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingProfileFields = errors.New("required supplier profile fields are missing")
	ErrInvalidRadius        = errors.New("delivery radius must be at least 1 km")
)

// DeliveryRadius bounds the area a supplier serves.
type DeliveryRadius struct {
	RadiusKm float64
	Lat      float64
	Lng      float64
}

// Supplier is the fulfillment-side profile attached to a supplier account.
type Supplier struct {
	ID               int64
	UserID           int64
	CompanyName      string
	BusinessAddress  string
	GSTNumber        string
	PANNumber        string
	BusinessType     string
	RegistrationDate time.Time
	DeliveryRadius   DeliveryRadius
	Documents        []string
	LastRestocked    *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate enforces the profile invariants required for upsert.
func (s *Supplier) Validate() error {
	if strings.TrimSpace(s.CompanyName) == "" ||
		strings.TrimSpace(s.BusinessAddress) == "" ||
		strings.TrimSpace(s.GSTNumber) == "" ||
		strings.TrimSpace(s.PANNumber) == "" ||
		strings.TrimSpace(s.BusinessType) == "" ||
		s.RegistrationDate.IsZero() {
		return ErrMissingProfileFields
	}
	if s.DeliveryRadius.RadiusKm < 1 {
		return ErrInvalidRadius
	}
	return nil
}
