package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/streetsource/streetsource-api/internal/domains/verification/domain"
	"github.com/streetsource/streetsource-api/internal/domains/verification/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists verification records in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type recordRow struct {
	ID            int64          `gorm:"primaryKey;column:id"`
	ItemID        int64          `gorm:"column:item_id;index"`
	Status        string         `gorm:"column:status;type:varchar(16)"`
	QualityRating int            `gorm:"column:quality_rating"`
	Review        string         `gorm:"column:review"`
	ImageURLs     pq.StringArray `gorm:"column:image_urls;type:text[]"`
	CreatedAt     time.Time      `gorm:"column:created_at;index"`
}

func (recordRow) TableName() string { return "verification_records" }

func (r *Repository) Save(ctx context.Context, record *domain.Record) (*domain.Record, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	row := recordRow{
		ItemID:        record.ItemID,
		Status:        string(record.Status),
		QualityRating: record.QualityRating,
		Review:        record.Review,
		ImageURLs:     pq.StringArray(record.ImageURLs),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *Repository) ByItemID(ctx context.Context, itemID int64) ([]*domain.Record, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []recordRow
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Record, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *Repository) LatestStatusByItem(ctx context.Context) (map[int64]domain.Status, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	type latestRow struct {
		ItemID int64
		Status string
	}
	var rows []latestRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT ON (item_id) item_id, status
		 FROM verification_records
		 ORDER BY item_id, created_at DESC, id DESC`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	latest := make(map[int64]domain.Status, len(rows))
	for _, row := range rows {
		latest[row.ItemID] = domain.Status(row.Status)
	}
	return latest, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres verification repository not configured")
	}
	return nil
}

func (row recordRow) toDomain() *domain.Record {
	return &domain.Record{
		ID:            row.ID,
		ItemID:        row.ItemID,
		Status:        domain.Status(row.Status),
		QualityRating: row.QualityRating,
		Review:        row.Review,
		ImageURLs:     []string(row.ImageURLs),
		CreatedAt:     row.CreatedAt,
	}
}
