package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/streetsource/streetsource-api/internal/domains/catalog/domain"
	"github.com/streetsource/streetsource-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists supplier profiles and inventory in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type supplierRecord struct {
	ID               int64          `gorm:"primaryKey;column:id"`
	UserID           int64          `gorm:"column:user_id;uniqueIndex"`
	CompanyName      string         `gorm:"column:company_name"`
	BusinessAddress  string         `gorm:"column:business_address"`
	GSTNumber        string         `gorm:"column:gst_number"`
	PANNumber        string         `gorm:"column:pan_number"`
	BusinessType     string         `gorm:"column:business_type"`
	RegistrationDate time.Time      `gorm:"column:registration_date"`
	RadiusKm         float64        `gorm:"column:radius_km"`
	Lat              float64        `gorm:"column:lat"`
	Lng              float64        `gorm:"column:lng"`
	Documents        pq.StringArray `gorm:"column:documents;type:text[]"`
	LastRestocked    *time.Time     `gorm:"column:last_restocked"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
}

func (supplierRecord) TableName() string { return "suppliers" }

type itemRecord struct {
	ID             int64     `gorm:"primaryKey;column:id"`
	SupplierUserID int64     `gorm:"column:supplier_user_id;index"`
	Name           string    `gorm:"column:name"`
	Quantity       float64   `gorm:"column:quantity"`
	Unit           string    `gorm:"column:unit;type:varchar(16)"`
	Price          float64   `gorm:"column:price"`
	LastUpdated    time.Time `gorm:"column:last_updated"`
}

func (itemRecord) TableName() string { return "inventory_items" }

func (r *Repository) UpsertSupplier(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := toSupplierRecord(supplier)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing supplierRecord
		err := tx.First(&existing, "user_id = ?", supplier.UserID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&record).Error
		case err != nil:
			return err
		default:
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			record.LastRestocked = existing.LastRestocked
			return tx.Save(&record).Error
		}
	})
	if err != nil {
		return nil, err
	}
	return r.SupplierByUserID(ctx, supplier.UserID)
}

func (r *Repository) SupplierByUserID(ctx context.Context, userID int64) (*domain.Supplier, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record supplierRecord
	if err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrSupplierNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListSuppliers(ctx context.Context) ([]*domain.Supplier, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []supplierRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Supplier, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) AddItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := itemRecord{
		SupplierUserID: item.SupplierUserID,
		Name:           item.Name,
		Quantity:       item.Quantity,
		Unit:           string(item.Unit),
		Price:          item.Price,
		LastUpdated:    time.Now(),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Model(&supplierRecord{}).
			Where("user_id = ?", item.SupplierUserID).
			Update("last_restocked", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) UpdateItem(ctx context.Context, supplierUserID int64, update ports.ItemUpdate) (*domain.InventoryItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	fields := map[string]any{"last_updated": time.Now()}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Quantity != nil {
		fields["quantity"] = *update.Quantity
	}
	if update.Unit != nil {
		fields["unit"] = string(*update.Unit)
	}
	if update.Price != nil {
		fields["price"] = *update.Price
	}
	result := r.db.WithContext(ctx).Model(&itemRecord{}).
		Where("id = ? AND supplier_user_id = ?", update.ItemID, supplierUserID).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrItemNotFound
	}
	return r.ItemByID(ctx, update.ItemID)
}

func (r *Repository) ItemByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record itemRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrItemNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ItemsBySupplier(ctx context.Context, supplierUserID int64) ([]*domain.InventoryItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []itemRecord
	if err := r.db.WithContext(ctx).
		Where("supplier_user_id = ?", supplierUserID).
		Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.InventoryItem, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) UpdateDeliveryRadius(ctx context.Context, userID int64, radius domain.DeliveryRadius) (*domain.Supplier, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&supplierRecord{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"radius_km":  radius.RadiusKm,
			"lat":        radius.Lat,
			"lng":        radius.Lng,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrSupplierNotFound
	}
	return r.SupplierByUserID(ctx, userID)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toSupplierRecord(s *domain.Supplier) supplierRecord {
	return supplierRecord{
		ID:               s.ID,
		UserID:           s.UserID,
		CompanyName:      s.CompanyName,
		BusinessAddress:  s.BusinessAddress,
		GSTNumber:        s.GSTNumber,
		PANNumber:        s.PANNumber,
		BusinessType:     s.BusinessType,
		RegistrationDate: s.RegistrationDate,
		RadiusKm:         s.DeliveryRadius.RadiusKm,
		Lat:              s.DeliveryRadius.Lat,
		Lng:              s.DeliveryRadius.Lng,
		Documents:        pq.StringArray(s.Documents),
		LastRestocked:    s.LastRestocked,
	}
}

func (r supplierRecord) toDomain() *domain.Supplier {
	return &domain.Supplier{
		ID:               r.ID,
		UserID:           r.UserID,
		CompanyName:      r.CompanyName,
		BusinessAddress:  r.BusinessAddress,
		GSTNumber:        r.GSTNumber,
		PANNumber:        r.PANNumber,
		BusinessType:     r.BusinessType,
		RegistrationDate: r.RegistrationDate,
		DeliveryRadius:   domain.DeliveryRadius{RadiusKm: r.RadiusKm, Lat: r.Lat, Lng: r.Lng},
		Documents:        []string(r.Documents),
		LastRestocked:    r.LastRestocked,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (r itemRecord) toDomain() *domain.InventoryItem {
	return &domain.InventoryItem{
		ID:             r.ID,
		SupplierUserID: r.SupplierUserID,
		Name:           r.Name,
		Quantity:       r.Quantity,
		Unit:           domain.Unit(r.Unit),
		Price:          r.Price,
		LastUpdated:    r.LastUpdated,
	}
}
