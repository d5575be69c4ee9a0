package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accountports "github.com/streetsource/streetsource-api/internal/domains/accounts/ports"
	catalogports "github.com/streetsource/streetsource-api/internal/domains/catalog/ports"
	communityports "github.com/streetsource/streetsource-api/internal/domains/community/ports"
	orderports "github.com/streetsource/streetsource-api/internal/domains/orders/ports"
	paymentports "github.com/streetsource/streetsource-api/internal/domains/payments/ports"
	vendorports "github.com/streetsource/streetsource-api/internal/domains/vendors/ports"
	verificationports "github.com/streetsource/streetsource-api/internal/domains/verification/ports"
	"github.com/streetsource/streetsource-api/internal/shared/envelope"
)

// Services bundles everything the HTTP layer exposes.
type Services struct {
	Accounts     accountports.Service
	Catalog      catalogports.Service
	Vendors      vendorports.Service
	Orders       orderports.Service
	OrderFlow    orderports.Orchestrator
	Payments     paymentports.Service
	Verification verificationports.Service
	Community    communityports.Service
	Auth         *AuthMiddleware
}

// NewRouter builds the gin engine with every route group mounted. Middleware
// such as otelgin is added by the caller.
func NewRouter(s Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	// Caps the multipart memory used by agent evidence uploads.
	router.MaxMultipartMemory = 32 << 20

	responder := newResponder()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	users := newUsersAPI(s.Accounts, responder)
	api.POST("/users/create", users.Create)
	api.POST("/users/login", users.Login)

	supplier := newSupplierAPI(s.Catalog, s.Orders, responder)
	supplierGroup := api.Group("/supplier", s.Auth.Require(), s.Auth.RequireRole("supplier"))
	supplierGroup.POST("/profile", supplier.UpsertProfile)
	supplierGroup.GET("/profile", supplier.GetProfile)
	supplierGroup.POST("/inventory", supplier.AddItem)
	supplierGroup.PUT("/inventory", supplier.UpdateItem)
	supplierGroup.GET("/inventory", supplier.ListInventory)
	supplierGroup.GET("/dashboard", supplier.Dashboard)
	supplierGroup.PUT("/delivery-radius", supplier.UpdateDeliveryRadius)
	supplierGroup.GET("/orders", supplier.ListOrders)

	vendor := newVendorAPI(s.Vendors, s.Accounts, s.Catalog, responder)
	vendorGroup := api.Group("/vendor", s.Auth.Require(), s.Auth.RequireRole("vendor"))
	vendorGroup.PUT("/profile", vendor.UpsertProfile)
	vendorGroup.GET("/profile", vendor.GetProfile)
	vendorGroup.GET("/getDashboard", vendor.Dashboard)
	vendorGroup.GET("/allSupplier", vendor.ListSuppliers)

	orders := newOrdersAPI(s.Orders, s.OrderFlow, s.Payments, responder)
	orderGroup := api.Group("/order", s.Auth.Require())
	orderGroup.POST("", s.Auth.RequireRole("vendor"), orders.Create)
	orderGroup.GET("/vendor", s.Auth.RequireRole("vendor"), orders.ListForVendor)
	orderGroup.GET("/supplier", s.Auth.RequireRole("supplier"), orders.ListForSupplier)
	orderGroup.GET("/:orderId", s.Auth.RequireRole("vendor", "supplier"), orders.Get)
	orderGroup.PUT("/:orderId", s.Auth.RequireRole("supplier"), orders.UpdateStatus)
	orderGroup.PUT("/:orderId/cancel", s.Auth.RequireRole("vendor"), orders.Cancel)
	orderGroup.POST("/checkout", s.Auth.RequireRole("vendor"), orders.Checkout)
	orderGroup.POST("/verify", s.Auth.RequireRole("vendor"), orders.VerifyPayment)

	agent := newAgentAPI(s.Verification, responder)
	agentGroup := api.Group("/agent", s.Auth.Require(), s.Auth.RequireRole("agent"))
	agentGroup.POST("/verify-inventory-item", agent.VerifyItem)
	agentGroup.GET("/inventory", agent.PendingInventory)

	consumer := newConsumerAPI(s.Community, s.Accounts, responder)
	consumerGroup := api.Group("/normalUser", s.Auth.Require(), s.Auth.RequireRole("normal_user"))
	consumerGroup.GET("/vendors", consumer.ListVendors)
	consumerGroup.GET("/feedback/:vendorId", consumer.FeedbackForVendor)
	consumerGroup.POST("/feedback", consumer.AddFeedback)
	consumerGroup.POST("/rate", consumer.RateVendor)
	consumerGroup.GET("/profile", consumer.GetProfile)
	consumerGroup.PUT("/profile", consumer.UpdateProfile)

	router.NoRoute(func(c *gin.Context) {
		envelope.NotFound(c, "route not found")
	})

	return router
}
