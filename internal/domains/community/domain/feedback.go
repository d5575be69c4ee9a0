package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingFeedback = errors.New("vendor id and comment are required")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// Feedback is a free-text review a consumer leaves for a vendor.
type Feedback struct {
	ID           int64
	UserID       int64
	VendorUserID int64
	Comment      string
	CreatedAt    time.Time
}

// NewFeedback validates and constructs a review.
func NewFeedback(userID, vendorUserID int64, comment string) (*Feedback, error) {
	comment = strings.TrimSpace(comment)
	if vendorUserID == 0 || comment == "" {
		return nil, ErrMissingFeedback
	}
	return &Feedback{UserID: userID, VendorUserID: vendorUserID, Comment: comment}, nil
}

// Rating is a 1-5 score a consumer gives a vendor. One row per (user, vendor)
// pair; re-rating overwrites.
type Rating struct {
	ID           int64
	UserID       int64
	VendorUserID int64
	Score        int
	CreatedAt    time.Time
}

// NewRating validates and constructs a score.
func NewRating(userID, vendorUserID int64, score int) (*Rating, error) {
	if vendorUserID == 0 || score < 1 || score > 5 {
		return nil, ErrInvalidRating
	}
	return &Rating{UserID: userID, VendorUserID: vendorUserID, Score: score}, nil
}
