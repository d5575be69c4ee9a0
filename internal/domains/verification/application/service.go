package application

import (
	"context"
	"fmt"
	"log/slog"

	catalogports "github.com/streetsource/streetsource-api/internal/domains/catalog/ports"
	"github.com/streetsource/streetsource-api/internal/domains/verification/domain"
	"github.com/streetsource/streetsource-api/internal/domains/verification/ports"
)

// Service handles agent quality verification of supplier inventory.
type Service struct {
	repo    ports.Repository
	media   ports.MediaStore
	catalog catalogports.Service
	logger  *slog.Logger
}

func NewService(repo ports.Repository, media ports.MediaStore, catalog catalogports.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, media: media, catalog: catalog, logger: logger}
}

// Submit stores the evidence images and appends a verification record to the
// item's history.
func (s *Service) Submit(ctx context.Context, input ports.SubmitInput) (*domain.Record, error) {
	if input.ItemID == 0 || input.Status == "" || input.QualityRating == 0 {
		return nil, domain.ErrMissingFields
	}
	if len(input.Images) == 0 {
		return nil, domain.ErrNoEvidence
	}
	if _, err := s.catalog.ItemByID(ctx, input.ItemID); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(input.Images))
	for i, image := range input.Images {
		url, err := s.media.Store(ctx, image.Filename, image.Content)
		if err != nil {
			return nil, fmt.Errorf("store evidence image %d: %w", i+1, err)
		}
		urls = append(urls, url)
	}

	record, err := domain.NewRecord(input.ItemID, input.Status, input.QualityRating, input.Review, urls)
	if err != nil {
		return nil, err
	}
	stored, err := s.repo.Save(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "verification record added",
		slog.Int64("item_id", stored.ItemID),
		slog.String("status", string(stored.Status)),
		slog.Int("quality_rating", stored.QualityRating))
	return stored, nil
}

// PendingFeed lists every inventory item that has no verification record yet
// or whose latest record is still pending.
func (s *Service) PendingFeed(ctx context.Context) ([]ports.FeedItem, error) {
	listings, err := s.catalog.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := s.repo.LatestStatusByItem(ctx)
	if err != nil {
		return nil, err
	}

	var feed []ports.FeedItem
	for _, listing := range listings {
		for _, item := range listing.Items {
			status, ok := latest[item.ID]
			if ok && status != domain.StatusPending {
				continue
			}
			entry := ports.FeedItem{Item: item, SupplierName: listing.Supplier.CompanyName}
			if ok {
				s := status
				entry.Status = &s
			}
			feed = append(feed, entry)
		}
	}
	return feed, nil
}

func (s *Service) History(ctx context.Context, itemID int64) ([]*domain.Record, error) {
	return s.repo.ByItemID(ctx, itemID)
}

var _ ports.Service = (*Service)(nil)
