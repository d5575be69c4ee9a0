package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/streetsource/streetsource-api/internal/domains/vendors/domain"
	"github.com/streetsource/streetsource-api/internal/domains/vendors/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists vendor profiles and order-tracking entries in
// PostgreSQL using GORM. The tracking table is also written by the order
// repository inside its own transactions.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type vendorRecord struct {
	ID                    int64                      `gorm:"primaryKey;column:id"`
	UserID                int64                      `gorm:"column:user_id;uniqueIndex"`
	CanOrderSupply        bool                       `gorm:"column:can_order_supply"`
	BusinessName          string                     `gorm:"column:business_name"`
	BusinessType          string                     `gorm:"column:business_type;type:varchar(32)"`
	OperatingLocations    []domain.OperatingLocation `gorm:"column:operating_locations;serializer:json"`
	OperatingHours        *domain.OperatingHours     `gorm:"column:operating_hours;serializer:json"`
	DaysOfOperation       pq.StringArray             `gorm:"column:days_of_operation;type:text[]"`
	CuisineTypes          pq.StringArray             `gorm:"column:cuisine_types;type:text[]"`
	PaymentMethods        pq.StringArray             `gorm:"column:payment_methods;type:text[]"`
	AverageDailyCustomers int                        `gorm:"column:average_daily_customers"`
	MonthlyRevenue        float64                    `gorm:"column:monthly_revenue"`
	PreferredDeliveryTime string                     `gorm:"column:preferred_delivery_time;type:varchar(8)"`
	Verified              bool                       `gorm:"column:verified"`
	VerificationDocuments pq.StringArray             `gorm:"column:verification_documents;type:text[]"`
	AverageRating         float64                    `gorm:"column:average_rating"`
	CreatedAt             time.Time                  `gorm:"column:created_at"`
	UpdatedAt             time.Time                  `gorm:"column:updated_at"`
}

func (vendorRecord) TableName() string { return "vendors" }

// TrackingRecord is exported so the order repository can write tracking rows
// inside the order-creation transaction.
type TrackingRecord struct {
	ID                int64      `gorm:"primaryKey;column:id"`
	VendorUserID      int64      `gorm:"column:vendor_user_id;index"`
	OrderID           int64      `gorm:"column:order_id;index"`
	Status            string     `gorm:"column:status;type:varchar(16)"`
	EstimatedDelivery *time.Time `gorm:"column:estimated_delivery"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (TrackingRecord) TableName() string { return "vendor_order_tracking" }

func (r *Repository) Upsert(ctx context.Context, vendor *domain.Vendor) (*domain.Vendor, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := toRecord(vendor)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing vendorRecord
		err := tx.First(&existing, "user_id = ?", vendor.UserID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&record).Error
		case err != nil:
			return err
		default:
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			record.AverageRating = existing.AverageRating
			record.Verified = existing.Verified
			return tx.Save(&record).Error
		}
	})
	if err != nil {
		return nil, err
	}
	return r.ByUserID(ctx, vendor.UserID)
}

func (r *Repository) ByUserID(ctx context.Context, userID int64) (*domain.Vendor, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record vendorRecord
	if err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrVendorNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ByID(ctx context.Context, id int64) (*domain.Vendor, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record vendorRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrVendorNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Vendor, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []vendorRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Vendor, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) SetAverageRating(ctx context.Context, userID int64, rating float64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&vendorRecord{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"average_rating": rating, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrVendorNotFound
	}
	return nil
}

func (r *Repository) Tracking(ctx context.Context, userID int64, limit int) ([]domain.TrackingEntry, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).
		Where("vendor_user_id = ?", userID).
		Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var records []TrackingRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]domain.TrackingEntry, 0, len(records))
	for _, record := range records {
		out = append(out, domain.TrackingEntry{
			OrderID:           record.OrderID,
			Status:            record.Status,
			EstimatedDelivery: record.EstimatedDelivery,
		})
	}
	return out, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres vendor repository not configured")
	}
	return nil
}

func toRecord(v *domain.Vendor) vendorRecord {
	return vendorRecord{
		ID:                    v.ID,
		UserID:                v.UserID,
		CanOrderSupply:        v.CanOrderSupply,
		BusinessName:          v.BusinessName,
		BusinessType:          string(v.BusinessType),
		OperatingLocations:    v.OperatingLocations,
		OperatingHours:        v.OperatingHours,
		DaysOfOperation:       pq.StringArray(v.DaysOfOperation),
		CuisineTypes:          pq.StringArray(v.CuisineTypes),
		PaymentMethods:        pq.StringArray(v.PaymentMethods),
		AverageDailyCustomers: v.AverageDailyCustomers,
		MonthlyRevenue:        v.MonthlyRevenue,
		PreferredDeliveryTime: v.PreferredDeliveryTime,
		Verified:              v.Verified,
		VerificationDocuments: pq.StringArray(v.VerificationDocuments),
		AverageRating:         v.AverageRating,
	}
}

func (r vendorRecord) toDomain() *domain.Vendor {
	return &domain.Vendor{
		ID:                    r.ID,
		UserID:                r.UserID,
		CanOrderSupply:        r.CanOrderSupply,
		BusinessName:          r.BusinessName,
		BusinessType:          domain.BusinessType(r.BusinessType),
		OperatingLocations:    r.OperatingLocations,
		OperatingHours:        r.OperatingHours,
		DaysOfOperation:       []string(r.DaysOfOperation),
		CuisineTypes:          []string(r.CuisineTypes),
		PaymentMethods:        []string(r.PaymentMethods),
		AverageDailyCustomers: r.AverageDailyCustomers,
		MonthlyRevenue:        r.MonthlyRevenue,
		PreferredDeliveryTime: r.PreferredDeliveryTime,
		Verified:              r.Verified,
		VerificationDocuments: []string(r.VerificationDocuments),
		AverageRating:         r.AverageRating,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}
