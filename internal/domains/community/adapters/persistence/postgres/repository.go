package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/streetsource/streetsource-api/internal/domains/community/domain"
	"github.com/streetsource/streetsource-api/internal/domains/community/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists feedback and ratings in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type feedbackRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	UserID       int64     `gorm:"column:user_id;index"`
	VendorUserID int64     `gorm:"column:vendor_user_id;index"`
	Comment      string    `gorm:"column:comment"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (feedbackRecord) TableName() string { return "feedbacks" }

type ratingRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	UserID       int64     `gorm:"column:user_id;uniqueIndex:idx_rating_user_vendor"`
	VendorUserID int64     `gorm:"column:vendor_user_id;uniqueIndex:idx_rating_user_vendor;index"`
	Score        int       `gorm:"column:score"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (ratingRecord) TableName() string { return "ratings" }

func (r *Repository) SaveFeedback(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := feedbackRecord{
		UserID:       feedback.UserID,
		VendorUserID: feedback.VendorUserID,
		Comment:      feedback.Comment,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) FeedbackByUserAndVendor(ctx context.Context, userID, vendorUserID int64) ([]*domain.Feedback, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []feedbackRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND vendor_user_id = ?", userID, vendorUserID).
		Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Feedback, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) UpsertRating(ctx context.Context, rating *domain.Rating) (*domain.Rating, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := ratingRecord{
		UserID:       rating.UserID,
		VendorUserID: rating.VendorUserID,
		Score:        rating.Score,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "vendor_user_id"}},
		DoUpdates: clause.Assignments(map[string]any{"score": rating.Score}),
	}).Create(&record).Error
	if err != nil {
		return nil, err
	}
	var stored ratingRecord
	if err := r.db.WithContext(ctx).
		First(&stored, "user_id = ? AND vendor_user_id = ?", rating.UserID, rating.VendorUserID).Error; err != nil {
		return nil, err
	}
	return stored.toDomain(), nil
}

func (r *Repository) RatingsForVendor(ctx context.Context, vendorUserID int64) ([]*domain.Rating, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []ratingRecord
	if err := r.db.WithContext(ctx).
		Where("vendor_user_id = ?", vendorUserID).Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Rating, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) CountByUser(ctx context.Context, userID int64) (int64, int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, 0, err
	}
	var feedbacks, ratings int64
	if err := r.db.WithContext(ctx).Model(&feedbackRecord{}).
		Where("user_id = ?", userID).Count(&feedbacks).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&ratingRecord{}).
		Where("user_id = ?", userID).Count(&ratings).Error; err != nil {
		return 0, 0, err
	}
	return feedbacks, ratings, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres community repository not configured")
	}
	return nil
}

func (record feedbackRecord) toDomain() *domain.Feedback {
	return &domain.Feedback{
		ID:           record.ID,
		UserID:       record.UserID,
		VendorUserID: record.VendorUserID,
		Comment:      record.Comment,
		CreatedAt:    record.CreatedAt,
	}
}

func (record ratingRecord) toDomain() *domain.Rating {
	return &domain.Rating{
		ID:           record.ID,
		UserID:       record.UserID,
		VendorUserID: record.VendorUserID,
		Score:        record.Score,
		CreatedAt:    record.CreatedAt,
	}
}
