package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/streetsource/streetsource-api/internal/domains/vendors/domain"
	"github.com/streetsource/streetsource-api/internal/domains/vendors/ports"
)

// Repository is an in-memory vendor store used when no database is configured
// and by tests.
type Repository struct {
	mu       sync.RWMutex
	vendors  map[int64]*domain.Vendor // keyed by user id
	tracking map[int64][]domain.TrackingEntry
	nextID   int64
}

func NewRepository() *Repository {
	return &Repository{
		vendors:  make(map[int64]*domain.Vendor),
		tracking: make(map[int64][]domain.TrackingEntry),
	}
}

func (r *Repository) Upsert(_ context.Context, vendor *domain.Vendor) (*domain.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := cloneVendor(vendor)
	if existing, ok := r.vendors[vendor.UserID]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
		stored.AverageRating = existing.AverageRating
	} else {
		r.nextID++
		stored.ID = r.nextID
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.vendors[stored.UserID] = stored
	return cloneVendor(stored), nil
}

func (r *Repository) ByUserID(_ context.Context, userID int64) (*domain.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vendor, ok := r.vendors[userID]
	if !ok {
		return nil, ports.ErrVendorNotFound
	}
	return cloneVendor(vendor), nil
}

func (r *Repository) ByID(_ context.Context, id int64) (*domain.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, vendor := range r.vendors {
		if vendor.ID == id {
			return cloneVendor(vendor), nil
		}
	}
	return nil, ports.ErrVendorNotFound
}

func (r *Repository) List(_ context.Context) ([]*domain.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Vendor, 0, len(r.vendors))
	for _, vendor := range r.vendors {
		out = append(out, cloneVendor(vendor))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) SetAverageRating(_ context.Context, userID int64, rating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vendor, ok := r.vendors[userID]
	if !ok {
		return ports.ErrVendorNotFound
	}
	vendor.AverageRating = rating
	vendor.UpdatedAt = time.Now()
	return nil
}

func (r *Repository) Tracking(_ context.Context, userID int64, limit int) ([]domain.TrackingEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.tracking[userID]
	// Most recent first.
	out := make([]domain.TrackingEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// AppendTracking records a new order on the vendor's tracking list. Used by
// the in-memory order repository to mirror the transactional dual-write.
func (r *Repository) AppendTracking(_ context.Context, userID int64, entry domain.TrackingEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tracking[userID] = append(r.tracking[userID], entry)
	return nil
}

// UpdateTracking rewrites the tracking entry for an order in place.
func (r *Repository) UpdateTracking(_ context.Context, userID, orderID int64, status string, estimated *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.tracking[userID]
	for i := range entries {
		if entries[i].OrderID == orderID {
			entries[i].Status = status
			if estimated != nil {
				entries[i].EstimatedDelivery = estimated
			}
			return nil
		}
	}
	return nil
}

func cloneVendor(v *domain.Vendor) *domain.Vendor {
	out := *v
	out.OperatingLocations = append([]domain.OperatingLocation(nil), v.OperatingLocations...)
	out.DaysOfOperation = append([]string(nil), v.DaysOfOperation...)
	out.CuisineTypes = append([]string(nil), v.CuisineTypes...)
	out.PaymentMethods = append([]string(nil), v.PaymentMethods...)
	out.VerificationDocuments = append([]string(nil), v.VerificationDocuments...)
	if v.OperatingHours != nil {
		hours := *v.OperatingHours
		out.OperatingHours = &hours
	}
	return &out
}

var _ ports.Repository = (*Repository)(nil)
