package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/streetsource/streetsource-api/internal/domains/catalog/domain"
	catalogports "github.com/streetsource/streetsource-api/internal/domains/catalog/ports"
	orderports "github.com/streetsource/streetsource-api/internal/domains/orders/ports"
	"github.com/streetsource/streetsource-api/internal/shared/envelope"
)

// supplierAPI handles the supplier-facing profile, inventory, and order views.
type supplierAPI struct {
	catalog   catalogports.Service
	orders    orderports.Service
	responder *envelope.Responder
}

func newSupplierAPI(catalog catalogports.Service, orders orderports.Service, responder *envelope.Responder) *supplierAPI {
	return &supplierAPI{catalog: catalog, orders: orders, responder: responder}
}

type supplierProfileRequest struct {
	CompanyName      string                `json:"companyName" binding:"required"`
	BusinessAddress  string                `json:"businessAddress" binding:"required"`
	GSTNumber        string                `json:"gstNumber" binding:"required"`
	PANNumber        string                `json:"panNumber" binding:"required"`
	BusinessType     string                `json:"businessType" binding:"required"`
	RegistrationDate time.Time             `json:"registrationDate" binding:"required"`
	DeliveryRadius   deliveryRadiusPayload `json:"deliveryRadius"`
	Documents        []string              `json:"documents"`
}

type deliveryRadiusPayload struct {
	RadiusKm float64 `json:"radiusKm"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type supplierResponse struct {
	ID               int64                 `json:"id"`
	UserID           int64                 `json:"userId"`
	CompanyName      string                `json:"companyName"`
	BusinessAddress  string                `json:"businessAddress"`
	GSTNumber        string                `json:"gstNumber"`
	PANNumber        string                `json:"panNumber"`
	BusinessType     string                `json:"businessType"`
	RegistrationDate time.Time             `json:"registrationDate"`
	DeliveryRadius   deliveryRadiusPayload `json:"deliveryRadius"`
	Documents        []string              `json:"documents"`
	LastRestocked    *time.Time            `json:"lastRestocked,omitempty"`
}

func toSupplierResponse(s *catalogdomain.Supplier) supplierResponse {
	return supplierResponse{
		ID:               s.ID,
		UserID:           s.UserID,
		CompanyName:      s.CompanyName,
		BusinessAddress:  s.BusinessAddress,
		GSTNumber:        s.GSTNumber,
		PANNumber:        s.PANNumber,
		BusinessType:     s.BusinessType,
		RegistrationDate: s.RegistrationDate,
		DeliveryRadius: deliveryRadiusPayload{
			RadiusKm: s.DeliveryRadius.RadiusKm,
			Lat:      s.DeliveryRadius.Lat,
			Lng:      s.DeliveryRadius.Lng,
		},
		Documents:     s.Documents,
		LastRestocked: s.LastRestocked,
	}
}

type inventoryItemResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	Price       float64   `json:"price"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func toItemResponse(item *catalogdomain.InventoryItem) inventoryItemResponse {
	return inventoryItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Quantity:    item.Quantity,
		Unit:        string(item.Unit),
		Price:       item.Price,
		LastUpdated: item.LastUpdated,
	}
}

func toItemResponses(items []*catalogdomain.InventoryItem) []inventoryItemResponse {
	out := make([]inventoryItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}

// Post /api/supplier/profile
func (api *supplierAPI) UpsertProfile(c *gin.Context) {
	var payload supplierProfileRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	supplier := &catalogdomain.Supplier{
		UserID:           currentUserID(c),
		CompanyName:      payload.CompanyName,
		BusinessAddress:  payload.BusinessAddress,
		GSTNumber:        payload.GSTNumber,
		PANNumber:        payload.PANNumber,
		BusinessType:     payload.BusinessType,
		RegistrationDate: payload.RegistrationDate,
		DeliveryRadius: catalogdomain.DeliveryRadius{
			RadiusKm: payload.DeliveryRadius.RadiusKm,
			Lat:      payload.DeliveryRadius.Lat,
			Lng:      payload.DeliveryRadius.Lng,
		},
		Documents: payload.Documents,
	}
	saved, err := api.catalog.UpsertProfile(c.Request.Context(), supplier)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, toSupplierResponse(saved), "supplier profile saved")
}

// Get /api/supplier/profile
func (api *supplierAPI) GetProfile(c *gin.Context) {
	supplier, err := api.catalog.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, toSupplierResponse(supplier), "supplier profile")
}

type addItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit" binding:"required"`
	Price    float64 `json:"price"`
}

// Post /api/supplier/inventory
func (api *supplierAPI) AddItem(c *gin.Context) {
	var payload addItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	item, err := catalogdomain.NewInventoryItem(
		currentUserID(c), payload.Name, payload.Quantity,
		catalogdomain.Unit(payload.Unit), payload.Price,
	)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	saved, err := api.catalog.AddItem(c.Request.Context(), item)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusCreated, toItemResponse(saved), "inventory item added")
}

type updateItemRequest struct {
	ItemID   int64    `json:"itemId" binding:"required"`
	Name     *string  `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Price    *float64 `json:"price"`
}

// Put /api/supplier/inventory
func (api *supplierAPI) UpdateItem(c *gin.Context) {
	var payload updateItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	update := catalogports.ItemUpdate{
		ItemID:   payload.ItemID,
		Name:     payload.Name,
		Quantity: payload.Quantity,
		Price:    payload.Price,
	}
	if payload.Unit != nil {
		unit := catalogdomain.Unit(*payload.Unit)
		update.Unit = &unit
	}
	saved, err := api.catalog.UpdateItem(c.Request.Context(), currentUserID(c), update)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, toItemResponse(saved), "inventory item updated")
}

// Get /api/supplier/inventory
func (api *supplierAPI) ListInventory(c *gin.Context) {
	items, err := api.catalog.ListInventory(c.Request.Context(), currentUserID(c))
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, toItemResponses(items), "inventory")
}

type dashboardResponse struct {
	TotalItems     int                   `json:"totalItems"`
	LastRestocked  *time.Time            `json:"lastRestocked,omitempty"`
	DeliveryRadius deliveryRadiusPayload `json:"deliveryRadius"`
}

// Get /api/supplier/dashboard
func (api *supplierAPI) Dashboard(c *gin.Context) {
	dashboard, err := api.catalog.GetDashboard(c.Request.Context(), currentUserID(c))
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, dashboardResponse{
		TotalItems:    dashboard.TotalItems,
		LastRestocked: dashboard.LastRestocked,
		DeliveryRadius: deliveryRadiusPayload{
			RadiusKm: dashboard.DeliveryRadius.RadiusKm,
			Lat:      dashboard.DeliveryRadius.Lat,
			Lng:      dashboard.DeliveryRadius.Lng,
		},
	}, "supplier dashboard")
}

// Put /api/supplier/delivery-radius
func (api *supplierAPI) UpdateDeliveryRadius(c *gin.Context) {
	var payload deliveryRadiusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	supplier, err := api.catalog.UpdateDeliveryRadius(c.Request.Context(), currentUserID(c), catalogdomain.DeliveryRadius{
		RadiusKm: payload.RadiusKm,
		Lat:      payload.Lat,
		Lng:      payload.Lng,
	})
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, toSupplierResponse(supplier), "delivery radius updated")
}

// Get /api/supplier/orders
func (api *supplierAPI) ListOrders(c *gin.Context) {
	filter, err := listFilterFromQuery(c)
	if err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	page, err := api.orders.ListForSupplier(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, toOrderPageResponse(page), "supplier orders")
}
