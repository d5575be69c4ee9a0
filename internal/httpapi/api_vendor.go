package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	accountports "github.com/streetsource/streetsource-api/internal/domains/accounts/ports"
	catalogports "github.com/streetsource/streetsource-api/internal/domains/catalog/ports"
	vendordomain "github.com/streetsource/streetsource-api/internal/domains/vendors/domain"
	vendorports "github.com/streetsource/streetsource-api/internal/domains/vendors/ports"
	"github.com/streetsource/streetsource-api/internal/shared/envelope"
)

// vendorAPI handles the vendor profile, dashboard, and supplier browse.
type vendorAPI struct {
	vendors   vendorports.Service
	accounts  accountports.Service
	catalog   catalogports.Service
	responder *envelope.Responder
}

func newVendorAPI(vendors vendorports.Service, accounts accountports.Service, catalog catalogports.Service, responder *envelope.Responder) *vendorAPI {
	return &vendorAPI{vendors: vendors, accounts: accounts, catalog: catalog, responder: responder}
}

type vendorProfileRequest struct {
	BusinessName          *string                          `json:"businessName"`
	BusinessType          *string                          `json:"businessType"`
	OperatingLocations    []vendordomain.OperatingLocation `json:"operatingLocations"`
	OperatingHours        *vendordomain.OperatingHours     `json:"operatingHours"`
	DaysOfOperation       []string                         `json:"daysOfOperation"`
	CuisineTypes          []string                         `json:"cuisineTypes"`
	PaymentMethods        []string                         `json:"paymentMethods"`
	AverageDailyCustomers *int                             `json:"averageDailyCustomers"`
	MonthlyRevenue        *float64                         `json:"monthlyRevenue"`
	PreferredDeliveryTime *string                          `json:"preferredDeliveryTime"`
	CanOrderSupply        *bool                            `json:"canOrderSupply"`
	VerificationDocuments []string                         `json:"verificationDocuments"`
}

type vendorResponse struct {
	ID                    int64                            `json:"id"`
	UserID                int64                            `json:"userId"`
	CanOrderSupply        bool                             `json:"canOrderSupply"`
	BusinessName          string                           `json:"businessName"`
	BusinessType          string                           `json:"businessType"`
	OperatingLocations    []vendordomain.OperatingLocation `json:"operatingLocations"`
	OperatingHours        *vendordomain.OperatingHours     `json:"operatingHours,omitempty"`
	DaysOfOperation       []string                         `json:"daysOfOperation"`
	CuisineTypes          []string                         `json:"cuisineTypes"`
	PaymentMethods        []string                         `json:"paymentMethods"`
	AverageDailyCustomers int                              `json:"averageDailyCustomers"`
	MonthlyRevenue        float64                          `json:"monthlyRevenue"`
	PreferredDeliveryTime string                           `json:"preferredDeliveryTime,omitempty"`
	Verified              bool                             `json:"verified"`
	AverageRating         float64                          `json:"averageRating"`
	CreatedAt             time.Time                        `json:"createdAt"`
}

func toVendorResponse(v *vendordomain.Vendor) vendorResponse {
	return vendorResponse{
		ID:                    v.ID,
		UserID:                v.UserID,
		CanOrderSupply:        v.CanOrderSupply,
		BusinessName:          v.BusinessName,
		BusinessType:          string(v.BusinessType),
		OperatingLocations:    v.OperatingLocations,
		OperatingHours:        v.OperatingHours,
		DaysOfOperation:       v.DaysOfOperation,
		CuisineTypes:          v.CuisineTypes,
		PaymentMethods:        v.PaymentMethods,
		AverageDailyCustomers: v.AverageDailyCustomers,
		MonthlyRevenue:        v.MonthlyRevenue,
		PreferredDeliveryTime: v.PreferredDeliveryTime,
		Verified:              v.Verified,
		AverageRating:         v.AverageRating,
		CreatedAt:             v.CreatedAt,
	}
}

// Put /api/vendor/profile
func (api *vendorAPI) UpsertProfile(c *gin.Context) {
	var payload vendorProfileRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	userID := currentUserID(c)
	account, err := api.accounts.GetByID(c.Request.Context(), userID)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	update := vendorports.ProfileUpdate{
		BusinessName:          payload.BusinessName,
		OperatingLocations:    payload.OperatingLocations,
		OperatingHours:        payload.OperatingHours,
		DaysOfOperation:       payload.DaysOfOperation,
		CuisineTypes:          payload.CuisineTypes,
		PaymentMethods:        payload.PaymentMethods,
		AverageDailyCustomers: payload.AverageDailyCustomers,
		MonthlyRevenue:        payload.MonthlyRevenue,
		PreferredDeliveryTime: payload.PreferredDeliveryTime,
		CanOrderSupply:        payload.CanOrderSupply,
		VerificationDocuments: payload.VerificationDocuments,
	}
	if payload.BusinessType != nil {
		businessType := vendordomain.BusinessType(*payload.BusinessType)
		update.BusinessType = &businessType
	}
	vendor, created, err := api.vendors.UpsertProfile(c.Request.Context(), userID, account.Name, update)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	status := http.StatusOK
	message := "vendor profile updated"
	if created {
		status = http.StatusCreated
		message = "vendor profile created"
	}
	envelope.OK(c, status, toVendorResponse(vendor), message)
}

// Get /api/vendor/profile
func (api *vendorAPI) GetProfile(c *gin.Context) {
	vendor, err := api.vendors.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, toVendorResponse(vendor), "vendor profile")
}

type vendorDashboardResponse struct {
	TotalOrders    int                          `json:"totalOrders"`
	PendingOrders  int                          `json:"pendingOrders"`
	RecentTracking []vendordomain.TrackingEntry `json:"recentTracking"`
}

// Get /api/vendor/getDashboard
func (api *vendorAPI) Dashboard(c *gin.Context) {
	dashboard, err := api.vendors.Dashboard(c.Request.Context(), currentUserID(c))
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, vendorDashboardResponse{
		TotalOrders:    dashboard.TotalOrders,
		PendingOrders:  dashboard.PendingOrders,
		RecentTracking: dashboard.RecentTracking,
	}, "vendor dashboard")
}

type supplierListingResponse struct {
	Supplier supplierResponse        `json:"supplier"`
	Items    []inventoryItemResponse `json:"items"`
}

// Get /api/vendor/allSupplier
func (api *vendorAPI) ListSuppliers(c *gin.Context) {
	listings, err := api.catalog.ListSuppliers(c.Request.Context())
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	out := make([]supplierListingResponse, 0, len(listings))
	for _, listing := range listings {
		out = append(out, supplierListingResponse{
			Supplier: toSupplierResponse(listing.Supplier),
			Items:    toItemResponses(listing.Items),
		})
	}
	envelope.OK(c, http.StatusOK, out, "suppliers")
}
