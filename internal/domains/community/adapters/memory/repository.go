package memory

import (
	"context"
	"sync"
	"time"

	"github.com/streetsource/streetsource-api/internal/domains/community/domain"
	"github.com/streetsource/streetsource-api/internal/domains/community/ports"
)

// Repository is an in-memory feedback and rating store used when no database
// is configured and by tests.
type Repository struct {
	mu        sync.RWMutex
	feedbacks []*domain.Feedback
	ratings   []*domain.Rating
	nextID    int64
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) SaveFeedback(_ context.Context, feedback *domain.Feedback) (*domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *feedback
	r.nextID++
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	r.feedbacks = append(r.feedbacks, &stored)
	out := stored
	return &out, nil
}

func (r *Repository) FeedbackByUserAndVendor(_ context.Context, userID, vendorUserID int64) ([]*domain.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Feedback
	for _, feedback := range r.feedbacks {
		if feedback.UserID == userID && feedback.VendorUserID == vendorUserID {
			clone := *feedback
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *Repository) UpsertRating(_ context.Context, rating *domain.Rating) (*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.ratings {
		if existing.UserID == rating.UserID && existing.VendorUserID == rating.VendorUserID {
			existing.Score = rating.Score
			clone := *existing
			return &clone, nil
		}
	}
	stored := *rating
	r.nextID++
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	r.ratings = append(r.ratings, &stored)
	out := stored
	return &out, nil
}

func (r *Repository) RatingsForVendor(_ context.Context, vendorUserID int64) ([]*domain.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Rating
	for _, rating := range r.ratings {
		if rating.VendorUserID == vendorUserID {
			clone := *rating
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *Repository) CountByUser(_ context.Context, userID int64) (int64, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var feedbacks, ratings int64
	for _, feedback := range r.feedbacks {
		if feedback.UserID == userID {
			feedbacks++
		}
	}
	for _, rating := range r.ratings {
		if rating.UserID == userID {
			ratings++
		}
	}
	return feedbacks, ratings, nil
}

var _ ports.Repository = (*Repository)(nil)
