package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	orderdomain "github.com/streetsource/streetsource-api/internal/domains/orders/domain"
	orderports "github.com/streetsource/streetsource-api/internal/domains/orders/ports"
	paymentports "github.com/streetsource/streetsource-api/internal/domains/payments/ports"
	"github.com/streetsource/streetsource-api/internal/shared/envelope"
)

// ordersAPI handles the order lifecycle and the payment checkout flow.
type ordersAPI struct {
	orders    orderports.Service
	flow      orderports.Orchestrator
	payments  paymentports.Service
	responder *envelope.Responder
}

func newOrdersAPI(orders orderports.Service, flow orderports.Orchestrator, payments paymentports.Service, responder *envelope.Responder) *ordersAPI {
	return &ordersAPI{orders: orders, flow: flow, payments: payments, responder: responder}
}

type createOrderRequest struct {
	SupplierID            int64                  `json:"supplierId" binding:"required"`
	Items                 []lineRequestPayload   `json:"items" binding:"required"`
	DeliveryLocation      deliveryLocationFields `json:"deliveryLocation"`
	PreferredDeliveryTime *time.Time             `json:"preferredDeliveryTime"`
	PaymentMethod         string                 `json:"paymentMethod"`
	SpecialInstructions   string                 `json:"specialInstructions"`
}

type lineRequestPayload struct {
	ItemID   int64   `json:"itemId"`
	Quantity float64 `json:"quantity"`
}

type deliveryLocationFields struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type orderResponse struct {
	ID                    int64                       `json:"id"`
	VendorUserID          int64                       `json:"vendorId"`
	SupplierUserID        int64                       `json:"supplierId"`
	Items                 []orderdomain.LineItem      `json:"items"`
	TotalAmount           float64                     `json:"totalAmount"`
	Status                string                      `json:"status"`
	DeliveryLocation      deliveryLocationFields      `json:"deliveryLocation"`
	PreferredDeliveryTime *time.Time                  `json:"preferredDeliveryTime,omitempty"`
	EstimatedDelivery     *time.Time                  `json:"estimatedDelivery,omitempty"`
	ActualDelivery        *time.Time                  `json:"actualDelivery,omitempty"`
	PaymentMethod         string                      `json:"paymentMethod"`
	PaymentStatus         string                      `json:"paymentStatus"`
	SpecialInstructions   string                      `json:"specialInstructions,omitempty"`
	PaymentDetails        *orderdomain.PaymentDetails `json:"paymentDetails,omitempty"`
	VendorName            string                      `json:"vendorName,omitempty"`
	SupplierName          string                      `json:"supplierName,omitempty"`
	CreatedAt             time.Time                   `json:"createdAt"`
	UpdatedAt             time.Time                   `json:"updatedAt"`
}

func toOrderResponse(order *orderdomain.Order) orderResponse {
	return orderResponse{
		ID:             order.ID,
		VendorUserID:   order.VendorUserID,
		SupplierUserID: order.SupplierUserID,
		Items:          order.Items,
		TotalAmount:    order.TotalAmount,
		Status:         string(order.Status),
		DeliveryLocation: deliveryLocationFields{
			Lat:     order.DeliveryLocation.Lat,
			Lng:     order.DeliveryLocation.Lng,
			Address: order.DeliveryLocation.Address,
		},
		PreferredDeliveryTime: order.PreferredDeliveryTime,
		EstimatedDelivery:     order.EstimatedDelivery,
		ActualDelivery:        order.ActualDelivery,
		PaymentMethod:         order.PaymentMethod,
		PaymentStatus:         string(order.PaymentStatus),
		SpecialInstructions:   order.SpecialInstructions,
		PaymentDetails:        order.PaymentDetails,
		CreatedAt:             order.CreatedAt,
		UpdatedAt:             order.UpdatedAt,
	}
}

type orderPageResponse struct {
	Orders []orderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Pages  int             `json:"pages"`
}

func toOrderPageResponse(page *orderports.OrderPage) orderPageResponse {
	out := orderPageResponse{
		Orders: make([]orderResponse, 0, len(page.Orders)),
		Total:  page.Total,
		Page:   page.Page,
		Pages:  page.Pages,
	}
	for _, order := range page.Orders {
		out.Orders = append(out.Orders, toOrderResponse(order))
	}
	return out
}

// listFilterFromQuery parses the shared status/page/limit query parameters.
func listFilterFromQuery(c *gin.Context) (orderports.ListFilter, error) {
	var filter orderports.ListFilter
	if raw := c.Query("status"); raw != "" {
		status := orderdomain.Status(raw)
		if !status.Valid() {
			return filter, fmt.Errorf("unknown status %q", raw)
		}
		filter.Status = &status
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, fmt.Errorf("page must be a positive integer")
		}
		filter.Page.Number = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, fmt.Errorf("limit must be a positive integer")
		}
		filter.Page.Size = limit
	}
	return filter, nil
}

func orderIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("orderId must be a positive integer")
	}
	return id, nil
}

// Post /api/order
func (api *ordersAPI) Create(c *gin.Context) {
	var payload createOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	input := orderports.CreateOrderInput{
		VendorUserID:   currentUserID(c),
		SupplierUserID: payload.SupplierID,
		DeliveryLocation: orderdomain.DeliveryLocation{
			Lat:     payload.DeliveryLocation.Lat,
			Lng:     payload.DeliveryLocation.Lng,
			Address: payload.DeliveryLocation.Address,
		},
		PreferredDeliveryTime: payload.PreferredDeliveryTime,
		PaymentMethod:         payload.PaymentMethod,
		SpecialInstructions:   payload.SpecialInstructions,
	}
	for _, line := range payload.Items {
		input.Items = append(input.Items, orderports.LineRequest{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
		})
	}
	order, err := api.flow.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusCreated, toOrderResponse(order), "order placed successfully")
}

// Get /api/order/vendor
func (api *ordersAPI) ListForVendor(c *gin.Context) {
	filter, err := listFilterFromQuery(c)
	if err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	page, err := api.orders.ListForVendor(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, toOrderPageResponse(page), "vendor orders")
}

// Get /api/order/supplier
func (api *ordersAPI) ListForSupplier(c *gin.Context) {
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

// Get /api/order/:orderId
func (api *ordersAPI) Get(c *gin.Context) {
	orderID, err := orderIDParam(c)
	if err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	view, err := api.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	response := toOrderResponse(view.Order)
	response.VendorName = view.VendorName
	response.SupplierName = view.SupplierName
	envelope.OK(c, http.StatusOK, response, "order details")
}

type updateStatusRequest struct {
	Status            string     `json:"status" binding:"required"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
}

// Put /api/order/:orderId
func (api *ordersAPI) UpdateStatus(c *gin.Context) {
	orderID, err := orderIDParam(c)
	if err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	var payload updateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	order, err := api.orders.UpdateStatus(c.Request.Context(), orderports.StatusUpdate{
		OrderID:           orderID,
		Status:            orderdomain.Status(payload.Status),
		EstimatedDelivery: payload.EstimatedDelivery,
	})
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, toOrderResponse(order), "order status updated")
}

// Put /api/order/:orderId/cancel
func (api *ordersAPI) Cancel(c *gin.Context) {
	orderID, err := orderIDParam(c)
	if err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	order, err := api.orders.Cancel(c.Request.Context(), orderID, currentUserID(c))
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, toOrderResponse(order), "order cancelled")
}

type checkoutRequest struct {
	OrderID int64   `json:"orderId" binding:"required"`
	Amount  float64 `json:"amount" binding:"required"`
}

type checkoutResponse struct {
	GatewayOrderID string `json:"razorpayOrderId"`
	Currency       string `json:"currency"`
	Amount         int64  `json:"amount"`
	OrderID        int64  `json:"orderId"`
}

// Post /api/order/checkout
func (api *ordersAPI) Checkout(c *gin.Context) {
	var payload checkoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	result, err := api.payments.Checkout(c.Request.Context(), payload.OrderID, payload.Amount)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, checkoutResponse{
		GatewayOrderID: result.GatewayOrderID,
		Currency:       result.Currency,
		Amount:         result.Amount,
		OrderID:        result.OrderID,
	}, "checkout session created")
}

type verifyPaymentRequest struct {
	PaymentID      string `json:"razorpayPaymentId"`
	GatewayOrderID string `json:"razorpayOrderId"`
	Signature      string `json:"razorpaySignature"`
}

// Post /api/order/verify
func (api *ordersAPI) VerifyPayment(c *gin.Context) {
	var payload verifyPaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	err := api.payments.Verify(c.Request.Context(), paymentports.VerifyInput{
		PaymentID:      payload.PaymentID,
		GatewayOrderID: payload.GatewayOrderID,
		Signature:      payload.Signature,
	})
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	envelope.OK(c, http.StatusOK, nil, "payment verified successfully")
}
