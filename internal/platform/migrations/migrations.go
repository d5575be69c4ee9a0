package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&sessionRecord{},
		&supplierRecord{},
		&itemRecord{},
		&vendorRecord{},
		&trackingRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&verificationRecord{},
		&feedbackRecord{},
		&ratingRecord{},
	)
}

// User schema mirrors the accounts Postgres adapter.
type userRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name"`
	Phone     string    `gorm:"column:phone;uniqueIndex"`
	PINHash   string    `gorm:"column:pin_hash"`
	Role      string    `gorm:"column:role;type:varchar(32);index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	UserID    int64      `gorm:"column:user_id;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Supplier and inventory schemas mirror the catalog Postgres adapter.
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

// Vendor profile and tracking schemas mirror the vendors Postgres adapter.
type vendorRecord struct {
	ID                    int64          `gorm:"primaryKey;column:id"`
	UserID                int64          `gorm:"column:user_id;uniqueIndex"`
	CanOrderSupply        bool           `gorm:"column:can_order_supply"`
	BusinessName          string         `gorm:"column:business_name"`
	BusinessType          string         `gorm:"column:business_type;type:varchar(32)"`
	OperatingLocations    []locationSpec `gorm:"column:operating_locations;serializer:json"`
	OperatingHours        *hoursSpec     `gorm:"column:operating_hours;serializer:json"`
	DaysOfOperation       pq.StringArray `gorm:"column:days_of_operation;type:text[]"`
	CuisineTypes          pq.StringArray `gorm:"column:cuisine_types;type:text[]"`
	PaymentMethods        pq.StringArray `gorm:"column:payment_methods;type:text[]"`
	AverageDailyCustomers int            `gorm:"column:average_daily_customers"`
	MonthlyRevenue        float64        `gorm:"column:monthly_revenue"`
	PreferredDeliveryTime string         `gorm:"column:preferred_delivery_time;type:varchar(8)"`
	Verified              bool           `gorm:"column:verified"`
	VerificationDocuments pq.StringArray `gorm:"column:verification_documents;type:text[]"`
	AverageRating         float64        `gorm:"column:average_rating"`
	CreatedAt             time.Time      `gorm:"column:created_at"`
	UpdatedAt             time.Time      `gorm:"column:updated_at"`
}

func (vendorRecord) TableName() string { return "vendors" }

type locationSpec struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Primary bool   `json:"primary"`
}

type hoursSpec struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type trackingRecord struct {
	ID                int64      `gorm:"primaryKey;column:id"`
	VendorUserID      int64      `gorm:"column:vendor_user_id;index"`
	OrderID           int64      `gorm:"column:order_id;index"`
	Status            string     `gorm:"column:status;type:varchar(16)"`
	EstimatedDelivery *time.Time `gorm:"column:estimated_delivery"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (trackingRecord) TableName() string { return "vendor_order_tracking" }

// Order schemas mirror the orders Postgres adapter.
type orderRecord struct {
	ID                    int64               `gorm:"primaryKey;column:id"`
	VendorUserID          int64               `gorm:"column:vendor_user_id;index"`
	SupplierUserID        int64               `gorm:"column:supplier_user_id;index"`
	TotalAmount           float64             `gorm:"column:total_amount"`
	Status                string              `gorm:"column:status;type:varchar(16);index"`
	DeliveryLat           float64             `gorm:"column:delivery_lat"`
	DeliveryLng           float64             `gorm:"column:delivery_lng"`
	DeliveryAddress       string              `gorm:"column:delivery_address"`
	PreferredDeliveryTime *time.Time          `gorm:"column:preferred_delivery_time"`
	EstimatedDelivery     *time.Time          `gorm:"column:estimated_delivery"`
	ActualDelivery        *time.Time          `gorm:"column:actual_delivery"`
	PaymentMethod         string              `gorm:"column:payment_method"`
	PaymentStatus         string              `gorm:"column:payment_status;type:varchar(16)"`
	SpecialInstructions   string              `gorm:"column:special_instructions"`
	PaymentDetails        *paymentDetailsSpec `gorm:"column:payment_details;type:jsonb;serializer:json"`
	GatewayOrderID        *string             `gorm:"column:gateway_order_id;index"`
	CreatedAt             time.Time           `gorm:"column:created_at;index"`
	UpdatedAt             time.Time           `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type paymentDetailsSpec struct {
	GatewayOrderID   string     `json:"gatewayOrderId"`
	GatewayPaymentID string     `json:"gatewayPaymentId"`
	Signature        string     `json:"signature"`
	Status           string     `json:"status"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
}

type orderItemRecord struct {
	ID           int64   `gorm:"primaryKey;column:id"`
	OrderID      int64   `gorm:"column:order_id;index"`
	ItemID       int64   `gorm:"column:item_id"`
	Name         string  `gorm:"column:name"`
	Unit         string  `gorm:"column:unit;type:varchar(16)"`
	Quantity     float64 `gorm:"column:quantity"`
	PriceAtOrder float64 `gorm:"column:price_at_order"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Verification schema mirrors the verification Postgres adapter.
type verificationRecord struct {
	ID            int64          `gorm:"primaryKey;column:id"`
	ItemID        int64          `gorm:"column:item_id;index"`
	Status        string         `gorm:"column:status;type:varchar(16)"`
	QualityRating int            `gorm:"column:quality_rating"`
	Review        string         `gorm:"column:review"`
	ImageURLs     pq.StringArray `gorm:"column:image_urls;type:text[]"`
	CreatedAt     time.Time      `gorm:"column:created_at;index"`
}

func (verificationRecord) TableName() string { return "verification_records" }

// Feedback and rating schemas mirror the community Postgres adapter.
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
