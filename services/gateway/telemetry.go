package gateway

import (
	"context"
	"sync"
	"time"

	"sealgate/logging"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	gatewayOnce      sync.Once
	dispatchLatency  metric.Float64Histogram
	dispatchRequests metric.Int64Counter
	dispatchErrors   metric.Int64Counter
	externalMessages metric.Int64Counter
)

func initGatewayTelemetry() {
	gatewayOnce.Do(func() {
		logger := logging.GetLogger()
		meter := otel.GetMeterProvider().Meter("sealgate/services/gateway")

		var err error

		if dispatchLatency, err = meter.Float64Histogram(
			"sealgate_gateway_dispatch_duration_ms",
			metric.WithUnit("ms"),
			metric.WithDescription("Internal action dispatch latency"),
		); err != nil {
			logger.Warn("Failed to register dispatch latency metric: %v", err)
		}

		if dispatchRequests, err = meter.Int64Counter(
			"sealgate_gateway_dispatch_requests_total",
			metric.WithDescription("Number of internal action dispatches"),
		); err != nil {
			logger.Warn("Failed to register dispatch request counter: %v", err)
		}

		if dispatchErrors, err = meter.Int64Counter(
			"sealgate_gateway_dispatch_errors_total",
			metric.WithDescription("Number of internal action dispatches resolving to an error"),
		); err != nil {
			logger.Warn("Failed to register dispatch error counter: %v", err)
		}

		if externalMessages, err = meter.Int64Counter(
			"sealgate_gateway_external_messages_total",
			metric.WithDescription("External channel messages by type and outcome"),
		); err != nil {
			logger.Warn("Failed to register external message counter: %v", err)
		}
	})
}

func recordDispatch(ctx context.Context, action string, duration time.Duration, failed bool) {
	initGatewayTelemetry()

	attrs := []attribute.KeyValue{
		attribute.String("action", action),
	}
	if dispatchLatency != nil {
		dispatchLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	}
	if dispatchRequests != nil {
		dispatchRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	if failed && dispatchErrors != nil {
		dispatchErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func recordExternalMessage(ctx context.Context, msgType string, accepted bool) {
	initGatewayTelemetry()

	if externalMessages == nil {
		return
	}
	externalMessages.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", msgType),
		attribute.Bool("accepted", accepted),
	))
}
