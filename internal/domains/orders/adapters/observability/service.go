package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/streetsource/streetsource-api/internal/domains/orders/domain"
	"github.com/streetsource/streetsource-api/internal/domains/orders/ports"
)

const tracerName = "github.com/streetsource/streetsource-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order lifecycle port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Create places an order with instrumentation.
func (s *Service) Create(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.Create",
		attribute.Int64("order.vendor_user_id", input.VendorUserID),
		attribute.Int64("order.supplier_user_id", input.SupplierUserID),
		attribute.Int("order.line_count", len(input.Items)),
	)
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int64("vendor_user_id", input.VendorUserID))
	result, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.Int64("vendor_user_id", input.VendorUserID))
	}
	s.metrics.recordCreated(ctx)
	span.SetAttributes(attribute.Float64("order.total_amount", result.TotalAmount))
	s.logInfo(ctx, "order created", slog.Int64("order_id", result.ID), slog.Float64("total_amount", result.TotalAmount))
	return result, nil
}

// UpdateStatus transitions an order's lifecycle state.
func (s *Service) UpdateStatus(ctx context.Context, update ports.StatusUpdate) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateStatus",
		attribute.Int64("order.id", update.OrderID),
		attribute.String("order.target_status", string(update.Status)),
	)
	defer span.End()

	result, err := s.inner.UpdateStatus(ctx, update)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.Int64("order_id", update.OrderID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "order status updated", slog.Int64("order_id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

// Cancel withdraws a pending or accepted order.
func (s *Service) Cancel(ctx context.Context, orderID, vendorUserID int64) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.Cancel", attribute.Int64("order.id", orderID))
	defer span.End()

	result, err := s.inner.Cancel(ctx, orderID, vendorUserID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("order_id", orderID))
	}
	s.metrics.recordCancelled(ctx)
	s.logInfo(ctx, "order cancelled", slog.Int64("order_id", result.ID))
	return result, nil
}

// Get loads a single order with parties resolved.
func (s *Service) Get(ctx context.Context, orderID int64) (*ports.OrderView, error) {
	ctx, span := s.startSpan(ctx, "Service.Get", attribute.Int64("order.id", orderID))
	defer span.End()

	result, err := s.inner.Get(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order_id", orderID))
	}
	return result, nil
}

// ListForVendor pages through a vendor's orders.
func (s *Service) ListForVendor(ctx context.Context, vendorUserID int64, filter ports.ListFilter) (*ports.OrderPage, error) {
	ctx, span := s.startSpan(ctx, "Service.ListForVendor", attribute.Int64("order.vendor_user_id", vendorUserID))
	defer span.End()

	result, err := s.inner.ListForVendor(ctx, vendorUserID, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list vendor orders", slog.Int64("vendor_user_id", vendorUserID))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result.Orders)))
	return result, nil
}

// ListForSupplier pages through a supplier's orders.
func (s *Service) ListForSupplier(ctx context.Context, supplierUserID int64, filter ports.ListFilter) (*ports.OrderPage, error) {
	ctx, span := s.startSpan(ctx, "Service.ListForSupplier", attribute.Int64("order.supplier_user_id", supplierUserID))
	defer span.End()

	result, err := s.inner.ListForSupplier(ctx, supplierUserID, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list supplier orders", slog.Int64("supplier_user_id", supplierUserID))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result.Orders)))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersCreated     metric.Int64Counter
	ordersCancelled   metric.Int64Counter
	statusTransitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	ordersCancelled, _ := m.Int64Counter("orders.service.cancelled", metric.WithDescription("Number of orders cancelled"))
	statusTransitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Number of order status transitions"))
	return serviceMetrics{
		ordersCreated:     ordersCreated,
		ordersCancelled:   ordersCancelled,
		statusTransitions: statusTransitions,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	addCounter(ctx, m.ordersCreated, 1)
}

func (m serviceMetrics) recordCancelled(ctx context.Context) {
	addCounter(ctx, m.ordersCancelled, 1)
}

func (m serviceMetrics) recordTransition(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.statusTransitions, 1, attribute.String("order.status", string(status)))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
