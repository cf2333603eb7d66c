package instrument

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/reval-dev/reval/pkg/reval"
)

// Default tracer name for reval instrumentation.
const defaultTracerName = "reval"

// TracerConfig configures the OpenTelemetry observer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "reval").
	TracerName string

	// AttributeExtractor adds custom attributes to each recompute span.
	AttributeExtractor func(name string) []attribute.KeyValue
}

// TracerOption configures the OpenTelemetry observer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(name string) []attribute.KeyValue) TracerOption {
	return func(c *TracerConfig) {
		c.AttributeExtractor = extractor
	}
}

// Tracer emits an OpenTelemetry span per recomputation.
// Cache hits are not traced: they are far too hot to be worth a span.
type Tracer struct {
	tracer    trace.Tracer
	extractor func(name string) []attribute.KeyValue
}

// NewTracer creates an OpenTelemetry observer using the globally registered
// tracer provider.
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	return &Tracer{
		tracer:    otel.Tracer(config.TracerName),
		extractor: config.AttributeExtractor,
	}
}

// OnRecompute implements reval.Observer. The span is backdated so that its
// duration matches the transformation's runtime.
func (t *Tracer) OnRecompute(name string, d time.Duration) {
	end := time.Now()

	attrs := []attribute.KeyValue{
		attribute.String("reval.derived", name),
	}
	if t.extractor != nil {
		attrs = append(attrs, t.extractor(name)...)
	}

	_, span := t.tracer.Start(context.Background(), "reval.recompute",
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(attrs...),
	)
	span.End(trace.WithTimestamp(end))
}

// OnCacheHit implements reval.Observer.
func (t *Tracer) OnCacheHit(name string) {}

var _ reval.Observer = (*Tracer)(nil)

// Multi fans observer hooks out to several observers.
type Multi []reval.Observer

// OnRecompute implements reval.Observer.
func (m Multi) OnRecompute(name string, d time.Duration) {
	for _, obs := range m {
		if obs != nil {
			obs.OnRecompute(name, d)
		}
	}
}

// OnCacheHit implements reval.Observer.
func (m Multi) OnCacheHit(name string) {
	for _, obs := range m {
		if obs != nil {
			obs.OnCacheHit(name)
		}
	}
}

var _ reval.Observer = (Multi)(nil)
