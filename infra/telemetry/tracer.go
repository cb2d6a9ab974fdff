package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceInfo identifies the process in logs and traces.
type ServiceInfo struct {
	Name      string
	Namespace string
	Version   string
}

// NewTracerProvider creates the process TracerProvider and registers it globally together
// with the W3C propagators. Span exporters are attached through opts.
func NewTracerProvider(service ServiceInfo, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	res := resource.NewSchemaless(
		attribute.String("service.name", service.Name),
		attribute.String("service.namespace", service.Namespace),
		attribute.String("service.version", service.Version),
	)

	tp := sdktrace.NewTracerProvider(append([]sdktrace.TracerProviderOption{sdktrace.WithResource(res)}, opts...)...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp
}
