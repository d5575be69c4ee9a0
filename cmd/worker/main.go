package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/streetsource/streetsource-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/streetsource/streetsource-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/streetsource/streetsource-api/internal/domains/catalog/application"
	"github.com/streetsource/streetsource-api/internal/domains/orders/adapters/gateways"
	ordermemory "github.com/streetsource/streetsource-api/internal/domains/orders/adapters/memory"
	orderpostgres "github.com/streetsource/streetsource-api/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/streetsource/streetsource-api/internal/domains/orders/application"
	orderports "github.com/streetsource/streetsource-api/internal/domains/orders/ports"
	vendormemory "github.com/streetsource/streetsource-api/internal/domains/vendors/adapters/memory"
	vendorpostgres "github.com/streetsource/streetsource-api/internal/domains/vendors/adapters/persistence/postgres"
	orderactivities "github.com/streetsource/streetsource-api/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/streetsource/streetsource-api/internal/durable/temporal/workflows/orders"
	"github.com/streetsource/streetsource-api/internal/platform/migrations"
	platformobservability "github.com/streetsource/streetsource-api/internal/platform/observability"
	platformpostgres "github.com/streetsource/streetsource-api/internal/platform/postgres"
)

func main() {
	ctx := context.Background()
	const serviceName = "streetsource-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderService, cleanupRepo := buildOrderService(ctx, logger)
	defer cleanupRepo()
	activities := orderactivities.NewActivities(orderService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

// buildOrderService wires the order placement unit against postgres when
// POSTGRES_DSN is set and against shared in-memory adapters otherwise.
func buildOrderService(ctx context.Context, logger *slog.Logger) (orderports.Service, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		catalogMem := catalogmemory.NewRepository()
		vendorMem := vendormemory.NewRepository()
		catalog := catalogapp.NewService(catalogMem)
		service := orderapp.NewService(
			ordermemory.NewRepository(catalogMem, vendorMem),
			gateways.NewCatalogStockSource(catalog),
			gateways.NewPartyDirectory(vendorMem, catalog),
			logger,
		)
		return service, cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Error("worker failed to run migrations", slog.String("error", err.Error()))
		cleanup()
		os.Exit(1)
	}
	catalog := catalogapp.NewService(catalogpostgres.NewRepository(db))
	vendorRepo := vendorpostgres.NewRepository(db)
	service := orderapp.NewService(
		orderpostgres.NewRepository(db),
		gateways.NewCatalogStockSource(catalog),
		gateways.NewPartyDirectory(vendorRepo, catalog),
		logger,
	)
	logger.Info("worker order repository configured with postgres")
	return service, cleanup
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
