package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/storefront/internal/orders/domain"
	"github.com/example/storefront/internal/orders/metrics"
	"github.com/example/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservablePlaceOrderHandler struct {
	handler PlaceOrderHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservablePlaceOrderHandler(handler PlaceOrderHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservablePlaceOrderHandler {
	return &ObservablePlaceOrderHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservablePlaceOrderHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "PlaceOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordOrderPlacementDuration(ctx, duration)
		o.metrics.RecordOrderPlaced(ctx, success)
	}()

	o.logger.InfoContext(ctx, "placing order",
		"user_id", cmd.UserID,
		"line_count", len(cmd.Lines),
	)

	order, err := o.handler.Handle(ctx, cmd)

	// An order returned alongside an error is persisted; only the event
	// publish failed. Failing the request here would invite a retry that
	// places the order twice, so log and carry on.
	if err != nil && order != nil {
		o.logger.WarnContext(ctx, "order placed but event publish failed",
			"error", err,
			"order_id", order.ID,
		)
		err = nil
	}

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to place order",
			"error", err,
			"user_id", cmd.UserID,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.Int64("order.user_id", order.UserID),
		attribute.Int64("order.total_amount_cents", order.TotalAmountCents),
		attribute.Int("order.item_count", len(order.Items)),
	)

	o.logger.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"user_id", order.UserID,
		"total_amount_cents", order.TotalAmountCents,
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return order, nil
}

type ObservableCancelOrderHandler struct {
	handler CancelOrderHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCancelOrderHandler(handler CancelOrderHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCancelOrderHandler {
	return &ObservableCancelOrderHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCancelOrderHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "CancelOrderCommand.Handle")
	defer span.End()

	var success bool
	defer func() {
		o.metrics.RecordOrderCancelled(ctx, success)
	}()

	order, err := o.handler.Handle(ctx, cmd)

	if err != nil && order != nil {
		o.logger.WarnContext(ctx, "order cancelled but event publish failed",
			"error", err,
			"order_id", order.ID,
		)
		err = nil
	}

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to cancel order",
			"error", err,
			"order_id", cmd.OrderID,
			"user_id", cmd.UserID,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.String("order.id", order.ID))
	o.logger.InfoContext(ctx, "order cancelled", "order_id", order.ID, "user_id", cmd.UserID)

	success = true
	telemetry.SetSpanSuccess(span)

	return order, nil
}

type ObservableUpdateStatusHandler struct {
	handler UpdateOrderStatusHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableUpdateStatusHandler(handler UpdateOrderStatusHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableUpdateStatusHandler {
	return &ObservableUpdateStatusHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableUpdateStatusHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "UpdateOrderStatusCommand.Handle")
	defer span.End()

	target := string(domain.ParseStatus(cmd.RawStatus))

	var success bool
	defer func() {
		o.metrics.RecordStatusUpdate(ctx, target, success)
	}()

	order, err := o.handler.Handle(ctx, cmd)

	if err != nil && order != nil {
		o.logger.WarnContext(ctx, "status updated but event publish failed",
			"error", err,
			"order_id", order.ID,
		)
		err = nil
	}

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to update order status",
			"error", err,
			"order_id", cmd.OrderID,
			"target_status", target,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("order.status", string(order.Status)),
	)
	o.logger.InfoContext(ctx, "order status updated", "order_id", order.ID, "status", order.Status)

	success = true
	telemetry.SetSpanSuccess(span)

	return order, nil
}
