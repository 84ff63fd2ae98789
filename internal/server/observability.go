package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/observability"
)

// ObservabilityShutdownFunc is returned by InitObservability.
type ObservabilityShutdownFunc func(context.Context) error

// InitObservability starts tracing and the metrics endpoint.
func InitObservability(serviceName, metricsEndpoint string, logger *zap.Logger) (ObservabilityShutdownFunc, error) {
	otelShutdown, err := observability.InitOtelProviders(serviceName, metricsEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	logger.Info("Observability initialized", zap.String("metrics_endpoint", metricsEndpoint+"/metrics"))
	return otelShutdown, nil
}
