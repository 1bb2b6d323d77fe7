package mapfacade

// Option defines a functional option for configuring a Facade.
type Option func(*Facade) error

// WithLogger sets the logger for the Facade.
//
// Debug level: stub creation and resolution, bounds creation
// Info level: map creation and initialization, benign duplicates, removals
// Warn level: oversized callback queues, removals of unknown identifiers
// Error level: failed routing requests, operations on unknown maps.
func WithLogger(logger Logger) Option {
	return func(f *Facade) error {
		f.inst.logger = logger
		return nil
	}
}

// WithContextualLogger sets the context-aware logger for the Facade.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(f *Facade) error {
		f.inst.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Facade.
func WithMetrics(collector MetricsCollector) Option {
	return func(f *Facade) error {
		f.inst.metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Facade.
// Spans are created for the environment readiness transition and for routing round trips.
func WithTracing(collector TracingCollector) Option {
	return func(f *Facade) error {
		f.inst.tracing = collector
		return nil
	}
}

// WithGeocoder replaces the provider's geocoder for Geocode and ReverseGeocode.
func WithGeocoder(geocoder Geocoder) Option {
	return func(f *Facade) error {
		f.geocoder = geocoder
		return nil
	}
}

// WithDefaultZoom sets the zoom used by CreateMap for non-positive zoom levels.
func WithDefaultZoom(zoom int) Option {
	return func(f *Facade) error {
		if zoom <= 0 {
			return ErrInvalidDefaultZoom
		}

		f.defaultZoom = zoom

		return nil
	}
}

// WithPendingCallbackWarnThreshold makes the Facade log a warning when a stub's callback
// queue grows beyond threshold. Callbacks are never dropped. Zero disables the warning.
func WithPendingCallbackWarnThreshold(threshold int) Option {
	return func(f *Facade) error {
		f.inst.queueWarnAt = threshold
		return nil
	}
}
