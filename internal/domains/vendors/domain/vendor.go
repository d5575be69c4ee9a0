package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidBusinessType = errors.New("business type must be one of cart, stall, food_truck, small_shop")
	ErrMultiplePrimary     = errors.New("only one location can be primary")
	ErrInvalidTimeOfDay    = errors.New("time must be in HH:MM format")
	ErrInvalidDayOfWeek    = errors.New("day must be one of sun, mon, tue, wed, thu, fri, sat")
	ErrInvalidCuisine      = errors.New("unknown cuisine type")
)

// BusinessType constrains the kind of street-food operation a vendor runs.
type BusinessType string

const (
	BusinessCart      BusinessType = "cart"
	BusinessStall     BusinessType = "stall"
	BusinessFoodTruck BusinessType = "food_truck"
	BusinessSmallShop BusinessType = "small_shop"
)

func (b BusinessType) Valid() bool {
	switch b {
	case BusinessCart, BusinessStall, BusinessFoodTruck, BusinessSmallShop:
		return true
	default:
		return false
	}
}

var timeOfDayPattern = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidTimeOfDay reports whether s is a 24h HH:MM clock value.
func ValidTimeOfDay(s string) bool {
	return timeOfDayPattern.MatchString(s)
}

var validDays = map[string]struct{}{
	"sun": {}, "mon": {}, "tue": {}, "wed": {}, "thu": {}, "fri": {}, "sat": {},
}

var validCuisines = map[string]struct{}{
	"north_indian": {}, "south_indian": {}, "chinese": {},
	"street_food": {}, "sweets": {}, "beverages": {},
}

// OperatingLocation is a named pitch where the vendor trades. At most one
// location may be flagged primary.
type OperatingLocation struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Primary bool   `json:"primary"`
}

// OperatingHours is the daily trading window.
type OperatingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TrackingEntry is the vendor-side denormalized view of an order's progress.
// It is written in the same transaction as the order itself.
type TrackingEntry struct {
	OrderID           int64      `json:"orderId"`
	Status            string     `json:"status"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
}

// Vendor is the buy-side profile attached to a vendor account.
type Vendor struct {
	ID                    int64
	UserID                int64
	CanOrderSupply        bool
	BusinessName          string
	BusinessType          BusinessType
	OperatingLocations    []OperatingLocation
	OperatingHours        *OperatingHours
	DaysOfOperation       []string
	CuisineTypes          []string
	PaymentMethods        []string
	AverageDailyCustomers int
	MonthlyRevenue        float64
	PreferredDeliveryTime string
	Verified              bool
	VerificationDocuments []string
	AverageRating         float64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewVendor returns the default profile created the first time a vendor
// account touches its profile.
func NewVendor(userID int64, businessName string) *Vendor {
	return &Vendor{
		UserID:          userID,
		CanOrderSupply:  true,
		BusinessName:    strings.TrimSpace(businessName),
		BusinessType:    BusinessCart,
		DaysOfOperation: []string{"mon", "tue", "wed", "thu", "fri", "sat"},
	}
}

// Validate enforces the profile invariants.
func (v *Vendor) Validate() error {
	if !v.BusinessType.Valid() {
		return ErrInvalidBusinessType
	}
	primaries := 0
	for _, loc := range v.OperatingLocations {
		if loc.Primary {
			primaries++
		}
	}
	if primaries > 1 {
		return ErrMultiplePrimary
	}
	if v.OperatingHours != nil {
		if !ValidTimeOfDay(v.OperatingHours.Start) || !ValidTimeOfDay(v.OperatingHours.End) {
			return ErrInvalidTimeOfDay
		}
	}
	if v.PreferredDeliveryTime != "" && !ValidTimeOfDay(v.PreferredDeliveryTime) {
		return ErrInvalidTimeOfDay
	}
	for _, day := range v.DaysOfOperation {
		if _, ok := validDays[day]; !ok {
			return ErrInvalidDayOfWeek
		}
	}
	for _, cuisine := range v.CuisineTypes {
		if _, ok := validCuisines[cuisine]; !ok {
			return ErrInvalidCuisine
		}
	}
	return nil
}
