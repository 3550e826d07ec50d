package monitoring

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
)

// TracingProvider owns the process-wide tracer provider. Span exporters are
// attached with WithSpanProcessor; without one, spans are sampled and
// propagated but not shipped anywhere.
type TracingProvider struct {
	provider *sdktrace.TracerProvider
	logger   *zap.Logger
}

// NewTracingProvider builds a tracer provider for the app and installs it as
// the global provider together with the W3C propagators
func NewTracingProvider(cfg *config.Config, logger *zap.Logger, processors ...sdktrace.SpanProcessor) *TracingProvider {
	sampler := sdktrace.NeverSample()
	if cfg.Monitoring.EnableTracing {
		sampler = sdktrace.AlwaysSample()
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.Monitoring.ServiceName),
		attribute.String("service.version", cfg.App.Version),
		attribute.String("deployment.environment", cfg.App.Environment),
	)

	options := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
	}
	for _, p := range processors {
		options = append(options, sdktrace.WithSpanProcessor(p))
	}

	provider := sdktrace.NewTracerProvider(options...)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing initialized",
		zap.String("service", cfg.Monitoring.ServiceName),
		zap.Bool("sampling", cfg.Monitoring.EnableTracing),
	)

	return &TracingProvider{provider: provider, logger: logger}
}

// Provider returns the SDK provider
func (t *TracingProvider) Provider() *sdktrace.TracerProvider {
	return t.provider
}

// Shutdown flushes and stops span processing
func (t *TracingProvider) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}
