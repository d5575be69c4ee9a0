package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountmemory "github.com/streetsource/streetsource-api/internal/domains/accounts/adapters/memory"
	accountapp "github.com/streetsource/streetsource-api/internal/domains/accounts/application"
	catalogmemory "github.com/streetsource/streetsource-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/streetsource/streetsource-api/internal/domains/catalog/application"
	communitymemory "github.com/streetsource/streetsource-api/internal/domains/community/adapters/memory"
	communityapp "github.com/streetsource/streetsource-api/internal/domains/community/application"
	"github.com/streetsource/streetsource-api/internal/domains/orders/adapters/gateways"
	ordermemory "github.com/streetsource/streetsource-api/internal/domains/orders/adapters/memory"
	orderworkflows "github.com/streetsource/streetsource-api/internal/domains/orders/adapters/workflows"
	orderapp "github.com/streetsource/streetsource-api/internal/domains/orders/application"
	paymentmemory "github.com/streetsource/streetsource-api/internal/domains/payments/adapters/memory"
	paymentapp "github.com/streetsource/streetsource-api/internal/domains/payments/application"
	vendormemory "github.com/streetsource/streetsource-api/internal/domains/vendors/adapters/memory"
	vendorapp "github.com/streetsource/streetsource-api/internal/domains/vendors/application"
	verificationmemory "github.com/streetsource/streetsource-api/internal/domains/verification/adapters/memory"
	verificationapp "github.com/streetsource/streetsource-api/internal/domains/verification/application"
	"github.com/streetsource/streetsource-api/internal/platform/auth"
	"github.com/streetsource/streetsource-api/internal/shared/envelope"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	payments *paymentapp.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tokens, err := auth.NewManager("router-test-secret", time.Hour)
	require.NoError(t, err)

	accountRepo := accountmemory.NewRepository()
	sessions := accountmemory.NewSessionStore(time.Hour)
	accounts := accountapp.NewService(accountRepo, sessions, tokens)

	catalogRepo := catalogmemory.NewRepository()
	catalog := catalogapp.NewService(catalogRepo)

	vendorRepo := vendormemory.NewRepository()
	orderRepo := ordermemory.NewRepository(catalogRepo, vendorRepo)
	orders := orderapp.NewService(
		orderRepo,
		gateways.NewCatalogStockSource(catalog),
		gateways.NewPartyDirectory(vendorRepo, catalog),
		nil,
	)
	vendors := vendorapp.NewService(vendorRepo, orders)

	payments, err := paymentapp.NewService(paymentmemory.NewGateway(), orderRepo, "payment-test-secret", nil)
	require.NoError(t, err)

	verification := verificationapp.NewService(
		verificationmemory.NewRepository(),
		mediaDiscard{},
		catalog,
		nil,
	)
	community := communityapp.NewService(communitymemory.NewRepository(), vendorRepo, nil)

	router := NewRouter(Services{
		Accounts:     accounts,
		Catalog:      catalog,
		Vendors:      vendors,
		Orders:       orders,
		OrderFlow:    orderworkflows.NewInlineOrderWorkflows(orders),
		Payments:     payments,
		Verification: verification,
		Community:    community,
		Auth:         NewAuthMiddleware(tokens, sessions),
	})
	return &testServer{router: router, payments: payments}
}

type mediaDiscard struct{}

func (mediaDiscard) Store(_ context.Context, filename string, _ io.Reader) (string, error) {
	return "/uploads/" + filename, nil
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) envelope.Envelope {
	t.Helper()
	var env envelope.Envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env))
	return env
}

func dataMap(t *testing.T, env envelope.Envelope) map[string]any {
	t.Helper()
	data, ok := env.Data.(map[string]any)
	require.True(t, ok, "envelope data is not an object: %v", env.Data)
	return data
}

func (s *testServer) register(t *testing.T, name, phone, role string) string {
	t.Helper()
	recorder := s.do(t, http.MethodPost, "/api/users/create", "", gin.H{
		"name": name, "phone": phone, "pin": "4321", "role": role,
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	data := dataMap(t, decodeEnvelope(t, recorder))
	token, _ := data["accessToken"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s *testServer) seedSupplier(t *testing.T, token string) {
	t.Helper()
	recorder := s.do(t, http.MethodPost, "/api/supplier/profile", token, gin.H{
		"companyName":      "Patil Wholesale",
		"businessAddress":  "Market Yard, Pune",
		"gstNumber":        "27AAPFU0939F1ZV",
		"panNumber":        "AAPFU0939F",
		"businessType":     "wholesaler",
		"registrationDate": "2023-01-10T00:00:00Z",
		"deliveryRadius":   gin.H{"radiusKm": 10, "lat": 18.52, "lng": 73.85},
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
}

func (s *testServer) addItem(t *testing.T, token, name string, qty, price float64) int64 {
	t.Helper()
	recorder := s.do(t, http.MethodPost, "/api/supplier/inventory", token, gin.H{
		"name": name, "quantity": qty, "unit": "kg", "price": price,
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	data := dataMap(t, decodeEnvelope(t, recorder))
	return int64(data["id"].(float64))
}

func TestRegisterAndLogin(t *testing.T) {
	server := newTestServer(t)

	token := server.register(t, "Ravi", "9876543210", "vendor")
	assert.NotEmpty(t, token)

	// Duplicate phone conflicts.
	recorder := server.do(t, http.MethodPost, "/api/users/create", "", gin.H{
		"name": "Other", "phone": "9876543210", "pin": "4321", "role": "vendor",
	})
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder = server.do(t, http.MethodPost, "/api/users/login", "", gin.H{
		"phone": "9876543210", "pin": "4321",
	})
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = server.do(t, http.MethodPost, "/api/users/login", "", gin.H{
		"phone": "9876543210", "pin": "9999",
	})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthAndRoleGates(t *testing.T) {
	server := newTestServer(t)

	recorder := server.do(t, http.MethodGet, "/api/supplier/inventory", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	vendorToken := server.register(t, "Ravi", "9876543210", "vendor")
	recorder = server.do(t, http.MethodGet, "/api/supplier/inventory", vendorToken, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = server.do(t, http.MethodGet, "/api/supplier/inventory", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestSupplierInventoryFlow(t *testing.T) {
	server := newTestServer(t)
	token := server.register(t, "Patil", "9822001122", "supplier")
	server.seedSupplier(t, token)

	itemID := server.addItem(t, token, "Potatoes", 10, 50)

	recorder := server.do(t, http.MethodPut, "/api/supplier/inventory", token, gin.H{
		"itemId": itemID, "price": 60,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	data := dataMap(t, decodeEnvelope(t, recorder))
	assert.Equal(t, float64(60), data["price"])
	assert.Equal(t, float64(10), data["quantity"])

	recorder = server.do(t, http.MethodGet, "/api/supplier/dashboard", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	data = dataMap(t, decodeEnvelope(t, recorder))
	assert.Equal(t, float64(1), data["totalItems"])

	// Unknown unit is rejected.
	recorder = server.do(t, http.MethodPost, "/api/supplier/inventory", token, gin.H{
		"name": "Onions", "quantity": 5, "unit": "sacks", "price": 30,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t)
	supplierToken := server.register(t, "Patil", "9822001122", "supplier")
	server.seedSupplier(t, supplierToken)
	itemID := server.addItem(t, supplierToken, "Potatoes", 10, 50)

	vendorToken := server.register(t, "Ravi", "9876543210", "vendor")
	recorder := server.do(t, http.MethodPut, "/api/vendor/profile", vendorToken, gin.H{
		"businessName": "Ravi Chaat Corner",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	recorder = server.do(t, http.MethodPost, "/api/order", vendorToken, gin.H{
		"supplierId":    1,
		"items":         []gin.H{{"itemId": itemID, "quantity": 2}},
		"paymentMethod": "cod",
		"deliveryLocation": gin.H{
			"lat": 18.52, "lng": 73.85, "address": "FC Road, Pune",
		},
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	order := dataMap(t, decodeEnvelope(t, recorder))
	assert.Equal(t, float64(100), order["totalAmount"])
	orderID := int64(order["id"].(float64))

	// Ordering more than remaining stock is a validation failure.
	recorder = server.do(t, http.MethodPost, "/api/order", vendorToken, gin.H{
		"supplierId":    1,
		"items":         []gin.H{{"itemId": itemID, "quantity": 50}},
		"paymentMethod": "cod",
		"deliveryLocation": gin.H{
			"lat": 18.52, "lng": 73.85, "address": "FC Road, Pune",
		},
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Supplier accepts then ships.
	recorder = server.do(t, http.MethodPut, fmt.Sprintf("/api/order/%d", orderID), supplierToken, gin.H{
		"status": "shipped",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	// Cancel after shipping is rejected.
	recorder = server.do(t, http.MethodPut, fmt.Sprintf("/api/order/%d/cancel", orderID), vendorToken, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Vendor listing shows the order.
	recorder = server.do(t, http.MethodGet, "/api/order/vendor?status=shipped", vendorToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	page := dataMap(t, decodeEnvelope(t, recorder))
	assert.Equal(t, float64(1), page["total"])

	// Both parties' names are resolved on the detail view.
	recorder = server.do(t, http.MethodGet, fmt.Sprintf("/api/order/%d", orderID), supplierToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	detail := dataMap(t, decodeEnvelope(t, recorder))
	assert.Equal(t, "Ravi Chaat Corner", detail["vendorName"])
	assert.Equal(t, "Patil Wholesale", detail["supplierName"])
}

func TestCheckoutAndVerifyOverHTTP(t *testing.T) {
	server := newTestServer(t)
	supplierToken := server.register(t, "Patil", "9822001122", "supplier")
	server.seedSupplier(t, supplierToken)
	itemID := server.addItem(t, supplierToken, "Potatoes", 10, 50)

	vendorToken := server.register(t, "Ravi", "9876543210", "vendor")
	recorder := server.do(t, http.MethodPut, "/api/vendor/profile", vendorToken, gin.H{
		"businessName": "Ravi Chaat Corner",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	recorder = server.do(t, http.MethodPost, "/api/order", vendorToken, gin.H{
		"supplierId":    1,
		"items":         []gin.H{{"itemId": itemID, "quantity": 2}},
		"paymentMethod": "upi",
		"deliveryLocation": gin.H{
			"lat": 18.52, "lng": 73.85, "address": "FC Road, Pune",
		},
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	order := dataMap(t, decodeEnvelope(t, recorder))
	orderID := int64(order["id"].(float64))

	recorder = server.do(t, http.MethodPost, "/api/order/checkout", vendorToken, gin.H{
		"orderId": orderID, "amount": 100,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	checkout := dataMap(t, decodeEnvelope(t, recorder))
	assert.Equal(t, float64(10000), checkout["amount"])
	gatewayOrderID := checkout["razorpayOrderId"].(string)
	require.NotEmpty(t, gatewayOrderID)

	// A forged signature fails closed.
	recorder = server.do(t, http.MethodPost, "/api/order/verify", vendorToken, gin.H{
		"razorpayPaymentId": "pay_123",
		"razorpayOrderId":   gatewayOrderID,
		"razorpaySignature": "deadbeef",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// The correctly signed payload captures the payment.
	recorder = server.do(t, http.MethodPost, "/api/order/verify", vendorToken, gin.H{
		"razorpayPaymentId": "pay_123",
		"razorpayOrderId":   gatewayOrderID,
		"razorpaySignature": server.payments.Sign(gatewayOrderID, "pay_123"),
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	recorder = server.do(t, http.MethodGet, fmt.Sprintf("/api/order/%d", orderID), vendorToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	detail := dataMap(t, decodeEnvelope(t, recorder))
	assert.Equal(t, "completed", detail["paymentStatus"])
}

func TestAgentVerificationOverHTTP(t *testing.T) {
	server := newTestServer(t)
	supplierToken := server.register(t, "Patil", "9822001122", "supplier")
	server.seedSupplier(t, supplierToken)
	itemID := server.addItem(t, supplierToken, "Ginger", 4, 120)

	agentToken := server.register(t, "Asha", "9833445566", "agent")

	recorder := server.do(t, http.MethodGet, "/api/agent/inventory", agentToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("itemId", fmt.Sprint(itemID)))
	require.NoError(t, writer.WriteField("status", "verified"))
	require.NoError(t, writer.WriteField("qualityRating", "4"))
	require.NoError(t, writer.WriteField("review", "fresh stock"))
	part, err := writer.CreateFormFile("images", "evidence.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/agent/verify-inventory-item", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+agentToken)
	response := httptest.NewRecorder()
	server.router.ServeHTTP(response, req)
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	record := dataMap(t, decodeEnvelope(t, response))
	assert.Equal(t, "verified", record["status"])

	// A submission without evidence images is rejected.
	var empty bytes.Buffer
	writer = multipart.NewWriter(&empty)
	require.NoError(t, writer.WriteField("itemId", fmt.Sprint(itemID)))
	require.NoError(t, writer.WriteField("status", "verified"))
	require.NoError(t, writer.WriteField("qualityRating", "4"))
	require.NoError(t, writer.Close())
	req = httptest.NewRequest(http.MethodPost, "/api/agent/verify-inventory-item", &empty)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+agentToken)
	response = httptest.NewRecorder()
	server.router.ServeHTTP(response, req)
	assert.Equal(t, http.StatusBadRequest, response.Code)
}

func TestConsumerFlowOverHTTP(t *testing.T) {
	server := newTestServer(t)
	vendorToken := server.register(t, "Ravi", "9876543210", "vendor")
	recorder := server.do(t, http.MethodPut, "/api/vendor/profile", vendorToken, gin.H{
		"businessName": "Ravi Chaat Corner",
		"cuisineTypes": []string{"street_food"},
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	userToken := server.register(t, "Meena", "9811223344", "normal_user")

	recorder = server.do(t, http.MethodPost, "/api/normalUser/rate", userToken, gin.H{
		"vendorId": 1, "rating": 4,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	recorder = server.do(t, http.MethodGet, "/api/normalUser/vendors?cuisine=street_food", userToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	page := dataMap(t, decodeEnvelope(t, recorder))
	assert.Equal(t, float64(1), page["total"])
	vendors := page["vendors"].([]any)
	require.Len(t, vendors, 1)
	assert.Equal(t, float64(4), vendors[0].(map[string]any)["averageRating"])

	recorder = server.do(t, http.MethodPost, "/api/normalUser/feedback", userToken, gin.H{
		"vendorId": 1, "comment": "best vada pav in town",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	recorder = server.do(t, http.MethodGet, "/api/normalUser/feedback/1", userToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	data := dataMap(t, decodeEnvelope(t, recorder))
	assert.Equal(t, true, data["hasFeedback"])

	recorder = server.do(t, http.MethodGet, "/api/normalUser/profile", userToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	profile := dataMap(t, decodeEnvelope(t, recorder))
	assert.Equal(t, float64(1), profile["totalReviews"])
	assert.Equal(t, float64(1), profile["totalRatings"])
}
