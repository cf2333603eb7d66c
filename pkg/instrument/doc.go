// Package instrument provides observability hooks for reval projections.
//
// Collector exports Prometheus metrics for recomputations and cache hits:
//
//	collector := instrument.NewCollector(instrument.WithNamespace("myapp"))
//	double := reval.Derive(count, doubleFn,
//	    reval.WithName("double"), reval.WithObserver(collector))
//
//	// Expose metrics:
//	http.Handle("/metrics", promhttp.Handler())
//
// Tracer emits an OpenTelemetry span per recomputation:
//
//	tracer := instrument.NewTracer(instrument.WithTracerName("myapp"))
//	d := reval.Derive(count, fn, reval.WithObserver(tracer))
//
// Multi fans a projection's hooks out to several observers:
//
//	reval.WithObserver(instrument.Multi{collector, tracer})
package instrument
