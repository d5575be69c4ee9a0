package domain

import (
	"errors"
	"time"
)

var (
	ErrMissingFields  = errors.New("item id, verification status, and quality rating are required")
	ErrInvalidStatus  = errors.New("verification status must be pending, verified, or rejected")
	ErrInvalidRating  = errors.New("quality rating must be between 1 and 5")
	ErrNoEvidence     = errors.New("at least one evidence image is required")
	ErrRecordNotFound = errors.New("verification record not found")
)

// Status is the outcome of an agent's quality check.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	default:
		return false
	}
}

// Record is one agent verification submission for an inventory item. Records
// are additive history: an item accumulates them over time and is never
// mutated by one.
type Record struct {
	ID            int64
	ItemID        int64
	Status        Status
	QualityRating int
	Review        string
	ImageURLs     []string
	CreatedAt     time.Time
}

// NewRecord validates and constructs a verification submission.
func NewRecord(itemID int64, status Status, rating int, review string, imageURLs []string) (*Record, error) {
	record := &Record{
		ItemID:        itemID,
		Status:        status,
		QualityRating: rating,
		Review:        review,
		ImageURLs:     imageURLs,
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}

// Validate enforces the submission invariants.
func (r *Record) Validate() error {
	if r.ItemID == 0 || r.Status == "" || r.QualityRating == 0 {
		return ErrMissingFields
	}
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	if r.QualityRating < 1 || r.QualityRating > 5 {
		return ErrInvalidRating
	}
	if len(r.ImageURLs) == 0 {
		return ErrNoEvidence
	}
	return nil
}
