package ports

import (
	"context"
	"io"

	catalogdomain "github.com/streetsource/streetsource-api/internal/domains/catalog/domain"
	"github.com/streetsource/streetsource-api/internal/domains/verification/domain"
)

type Repository interface {
	Save(ctx context.Context, record *domain.Record) (*domain.Record, error)
	ByItemID(ctx context.Context, itemID int64) ([]*domain.Record, error)
	// LatestStatusByItem returns the most recent verification status per
	// item, for the agent feed's filtering.
	LatestStatusByItem(ctx context.Context) (map[int64]domain.Status, error)
}

// MediaStore persists uploaded evidence images and returns serveable URLs.
type MediaStore interface {
	Store(ctx context.Context, filename string, content io.Reader) (url string, err error)
}

// Upload is one multipart evidence image.
type Upload struct {
	Filename string
	Content  io.Reader
}

// SubmitInput carries an agent's verification submission.
type SubmitInput struct {
	ItemID        int64
	Status        domain.Status
	QualityRating int
	Review        string
	Images        []Upload
}

// FeedItem is one inventory line in the agent's review queue, paired with the
// supplier it belongs to and its latest verification status.
type FeedItem struct {
	Item         *catalogdomain.InventoryItem
	SupplierName string
	Status       *domain.Status
}

type Service interface {
	// Submit stores the evidence images and appends a verification record.
	Submit(ctx context.Context, input SubmitInput) (*domain.Record, error)
	// PendingFeed lists inventory items that are unverified or still
	// pending, across all suppliers.
	PendingFeed(ctx context.Context) ([]FeedItem, error)
	History(ctx context.Context, itemID int64) ([]*domain.Record, error)
}
