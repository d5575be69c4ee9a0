package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	razorpayclient "github.com/streetsource/streetsource-api/internal/clients/http/razorpay"
	accountmemory "github.com/streetsource/streetsource-api/internal/domains/accounts/adapters/memory"
	accountpostgres "github.com/streetsource/streetsource-api/internal/domains/accounts/adapters/persistence/postgres"
	accountapp "github.com/streetsource/streetsource-api/internal/domains/accounts/application"
	accountports "github.com/streetsource/streetsource-api/internal/domains/accounts/ports"
	catalogmemory "github.com/streetsource/streetsource-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/streetsource/streetsource-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/streetsource/streetsource-api/internal/domains/catalog/application"
	catalogports "github.com/streetsource/streetsource-api/internal/domains/catalog/ports"
	communitymemory "github.com/streetsource/streetsource-api/internal/domains/community/adapters/memory"
	communitypostgres "github.com/streetsource/streetsource-api/internal/domains/community/adapters/persistence/postgres"
	communityapp "github.com/streetsource/streetsource-api/internal/domains/community/application"
	communityports "github.com/streetsource/streetsource-api/internal/domains/community/ports"
	"github.com/streetsource/streetsource-api/internal/domains/orders/adapters/gateways"
	ordermemory "github.com/streetsource/streetsource-api/internal/domains/orders/adapters/memory"
	orderobs "github.com/streetsource/streetsource-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/streetsource/streetsource-api/internal/domains/orders/adapters/persistence/postgres"
	orderworkflows "github.com/streetsource/streetsource-api/internal/domains/orders/adapters/workflows"
	orderapp "github.com/streetsource/streetsource-api/internal/domains/orders/application"
	orderports "github.com/streetsource/streetsource-api/internal/domains/orders/ports"
	paymentrazorpay "github.com/streetsource/streetsource-api/internal/domains/payments/adapters/external/razorpay"
	paymentmemory "github.com/streetsource/streetsource-api/internal/domains/payments/adapters/memory"
	paymentapp "github.com/streetsource/streetsource-api/internal/domains/payments/application"
	paymentports "github.com/streetsource/streetsource-api/internal/domains/payments/ports"
	vendormemory "github.com/streetsource/streetsource-api/internal/domains/vendors/adapters/memory"
	vendorpostgres "github.com/streetsource/streetsource-api/internal/domains/vendors/adapters/persistence/postgres"
	vendorapp "github.com/streetsource/streetsource-api/internal/domains/vendors/application"
	vendorports "github.com/streetsource/streetsource-api/internal/domains/vendors/ports"
	"github.com/streetsource/streetsource-api/internal/domains/verification/adapters/media"
	verificationmemory "github.com/streetsource/streetsource-api/internal/domains/verification/adapters/memory"
	verificationpostgres "github.com/streetsource/streetsource-api/internal/domains/verification/adapters/persistence/postgres"
	verificationapp "github.com/streetsource/streetsource-api/internal/domains/verification/application"
	verificationports "github.com/streetsource/streetsource-api/internal/domains/verification/ports"
	"github.com/streetsource/streetsource-api/internal/httpapi"
	"github.com/streetsource/streetsource-api/internal/platform/auth"
	"github.com/streetsource/streetsource-api/internal/platform/migrations"
	platformobservability "github.com/streetsource/streetsource-api/internal/platform/observability"
	platformpostgres "github.com/streetsource/streetsource-api/internal/platform/postgres"
)

// Run boots the marketplace HTTP API with observability, repositories, and
// workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "streetsource-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	stack, err := buildServices(cfg, db, tokens, logger, instruments)
	if err != nil {
		return err
	}

	var orderFlow orderports.Orchestrator = orderworkflows.NewInlineOrderWorkflows(stack.orders)
	if cfg.TemporalDisabled {
		logger.Info("Temporal disabled, placing orders inline")
	} else if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderFlow = orderworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := httpapi.NewRouter(httpapi.Services{
		Accounts:     stack.accounts,
		Catalog:      stack.catalog,
		Vendors:      stack.vendors,
		Orders:       stack.orders,
		OrderFlow:    orderFlow,
		Payments:     stack.payments,
		Verification: stack.verification,
		Community:    stack.community,
		Auth:         httpapi.NewAuthMiddleware(tokens, stack.sessions),
	})
	router.Use(otelgin.Middleware(serviceName))
	router.Static(cfg.MediaURLPrefix, cfg.MediaDir)

	addr := ":" + cfg.Port
	logger.Info("streetsource API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("streetsource API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// serviceStack is the wired application layer shared by the API process.
type serviceStack struct {
	accounts     accountports.Service
	sessions     accountports.SessionStore
	catalog      catalogports.Service
	vendors      vendorports.Service
	orders       orderports.Service
	payments     paymentports.Service
	verification verificationports.Service
	community    communityports.Service
}

// buildServices wires every bounded context against postgres when a database
// is configured and against the in-memory adapters otherwise.
func buildServices(cfg Config, db *gorm.DB, tokens *auth.Manager, logger *slog.Logger, instruments *platformobservability.Instruments) (*serviceStack, error) {
	var (
		accountRepo      accountports.Repository
		sessions         accountports.SessionStore
		catalogRepo      catalogports.Repository
		vendorRepo       vendorports.Repository
		orderRepo        orderports.Repository
		verificationRepo = verificationRepoFor(db)
		communityRepo    communityports.Repository
	)
	if db != nil {
		accountRepo = accountpostgres.NewRepository(db)
		sessions = accountpostgres.NewSessionStore(db, tokens.TTL())
		catalogRepo = catalogpostgres.NewRepository(db)
		vendorRepo = vendorpostgres.NewRepository(db)
		orderRepo = orderpostgres.NewRepository(db)
		communityRepo = communitypostgres.NewRepository(db)
	} else {
		catalogMem := catalogmemory.NewRepository()
		vendorMem := vendormemory.NewRepository()
		accountRepo = accountmemory.NewRepository()
		sessions = accountmemory.NewSessionStore(tokens.TTL())
		catalogRepo = catalogMem
		vendorRepo = vendorMem
		orderRepo = ordermemory.NewRepository(catalogMem, vendorMem)
		communityRepo = communitymemory.NewRepository()
	}

	accounts := accountapp.NewService(accountRepo, sessions, tokens)
	catalog := catalogapp.NewService(catalogRepo)

	coreOrders := orderapp.NewService(
		orderRepo,
		gateways.NewCatalogStockSource(catalog),
		gateways.NewPartyDirectory(vendorRepo, catalog),
		logger,
	)
	orders := orderobs.New(
		coreOrders,
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	vendors := vendorapp.NewService(vendorRepo, coreOrders)

	payments, err := buildPayments(cfg, orderRepo, logger)
	if err != nil {
		return nil, err
	}

	mediaStore, err := media.NewLocalStore(cfg.MediaDir, cfg.MediaURLPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare media storage: %w", err)
	}
	verification := verificationapp.NewService(verificationRepo, mediaStore, catalog, logger)
	community := communityapp.NewService(communityRepo, vendorRepo, logger)

	return &serviceStack{
		accounts:     accounts,
		sessions:     sessions,
		catalog:      catalog,
		vendors:      vendors,
		orders:       orders,
		payments:     payments,
		verification: verification,
		community:    community,
	}, nil
}

func verificationRepoFor(db *gorm.DB) verificationports.Repository {
	if db != nil {
		return verificationpostgres.NewRepository(db)
	}
	return verificationmemory.NewRepository()
}

// buildPayments uses the real Razorpay client when credentials are present
// and a local fake otherwise, so development setups never hit the gateway.
func buildPayments(cfg Config, orders orderports.Repository, logger *slog.Logger) (paymentports.Service, error) {
	secret := cfg.RazorpayKeySecret
	if secret == "" {
		secret = cfg.JWTSecret
		if logger != nil {
			logger.Warn("RAZORPAY_KEY_SECRET not set, using local payment gateway fake")
		}
	}
	var gateway paymentports.Gateway = paymentmemory.NewGateway()
	if cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "" {
		client, err := razorpayclient.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
		if err != nil {
			return nil, err
		}
		gateway = paymentrazorpay.NewGateway(client)
	}
	return paymentapp.NewService(gateway, orders, secret, logger)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if instruments == nil {
		return nil, errors.New("observability instruments are required")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer("temporal-client"),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
