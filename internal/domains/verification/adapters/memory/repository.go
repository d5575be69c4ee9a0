package memory

import (
	"context"
	"sync"
	"time"

	"github.com/streetsource/streetsource-api/internal/domains/verification/domain"
	"github.com/streetsource/streetsource-api/internal/domains/verification/ports"
)

// Repository is an in-memory verification history used when no database is
// configured and by tests.
type Repository struct {
	mu      sync.RWMutex
	records []*domain.Record
	nextID  int64
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Save(_ context.Context, record *domain.Record) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneRecord(record)
	r.nextID++
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	r.records = append(r.records, stored)
	return cloneRecord(stored), nil
}

func (r *Repository) ByItemID(_ context.Context, itemID int64) ([]*domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Record
	for _, record := range r.records {
		if record.ItemID == itemID {
			out = append(out, cloneRecord(record))
		}
	}
	return out, nil
}

func (r *Repository) LatestStatusByItem(_ context.Context) (map[int64]domain.Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Records are appended in order, so the last write per item wins.
	latest := make(map[int64]domain.Status)
	for _, record := range r.records {
		latest[record.ItemID] = record.Status
	}
	return latest, nil
}

func cloneRecord(record *domain.Record) *domain.Record {
	out := *record
	out.ImageURLs = append([]string(nil), record.ImageURLs...)
	return &out
}

var _ ports.Repository = (*Repository)(nil)
