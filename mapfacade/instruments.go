package mapfacade

import (
	"context"
	"math"
	"time"
)

const (
	logMsgOperation             = "mapfacade operation: "
	logMsgMapCreated            = "map created"
	logMsgMapAlreadyCreated     = "map already created, keeping existing handle"
	logMsgMapInitialized        = "map initialized"
	logMsgEnvironmentReady      = "environment ready"
	logMsgEnvironmentReadyAgain = "environment ready signal ignored, already ready"
	logMsgStubCreated           = "stub created"
	logMsgStubAlreadyCreated    = "stub creation attempted on an existing stub"
	logMsgHandleResolved        = "stub resolved"
	logMsgAlreadyAdded          = "already added, ignoring"
	logMsgRemoved               = "removed"
	logMsgRemovedStub           = "removed unresolved stub, dropping queued callbacks"
	logMsgRemoveUnknown         = "remove of unknown identifier ignored"
	logMsgQueueLarge            = "pending callback queue exceeds warning threshold"
	logMsgUnknownMap            = "unknown map"
	logMsgRouteFailed           = "directions request failed"
	logMsgRouteInstalled        = "route installed"
	logMsgBoundsCreated         = "bounds created"
	logMsgBoundsFitted          = "map fitted to bounds"
	logMsgOptionsNotNormalized  = "map options could not be normalized, falling back to shallow merge"
	logAttrError                = "error"
	logAttrMapID                = "map_id"
	logAttrID                   = "id"
	logAttrKind                 = "kind"
	logAttrDeferred             = "deferred"
	logAttrDrained              = "drained_callbacks"
	logAttrPending              = "pending_callbacks"
	logAttrPendingMaps          = "pending_maps"
	logAttrThreshold            = "threshold"
	logAttrStatus               = "status"
	logAttrDurationMS           = "duration_ms"
	logAttrOperation            = "operation"
)

const (
	metricMapsCreated       = "mapfacade_maps_created_total"
	metricStubsCreated      = "mapfacade_stubs_created_total"
	metricCallbacksDeferred = "mapfacade_callbacks_deferred_total"
	metricCallbacksDrained  = "mapfacade_callbacks_drained"
	metricDuplicates        = "mapfacade_duplicates_total"
	metricQueueWarnings     = "mapfacade_queue_warnings_total"
	metricRouteDuration     = "mapfacade_route_request_duration_seconds"
	metricRouteFailures     = "mapfacade_route_failures_total"
	labelKind               = "kind"
	labelStatus             = "status"
)

const (
	spanNameEnvironmentReady = "mapfacade.environment_ready"
	spanNameRoute            = "mapfacade.route"
	spanAttrMapID            = "map_id"
	spanAttrRouteID          = "route_id"
	spanAttrPendingMaps      = "pending_maps"
	spanAttrDrained          = "drained_callbacks"
	spanAttrStatus           = "directions_status"
	statusSuccess            = "success"
	statusError              = "error"
)

// instruments bundles the optional observability collaborators shared by the
// Facade and all registries it owns. Every method is a no-op for unset collaborators.
type instruments struct {
	logger           Logger
	contextualLogger ContextualLogger
	metrics          MetricsCollector
	tracing          TracingCollector
	queueWarnAt      int
}

func (in *instruments) debug(ctx context.Context, msg string, args ...any) {
	if in.logger != nil {
		in.logger.Debug(msg, args...)
	}

	if in.contextualLogger != nil {
		in.contextualLogger.DebugContext(ctx, msg, args...)
	}
}

func (in *instruments) info(ctx context.Context, msg string, args ...any) {
	if in.logger != nil {
		in.logger.Info(msg, args...)
	}

	if in.contextualLogger != nil {
		in.contextualLogger.InfoContext(ctx, msg, args...)
	}
}

func (in *instruments) warn(ctx context.Context, msg string, args ...any) {
	if in.logger != nil {
		in.logger.Warn(msg, args...)
	}

	if in.contextualLogger != nil {
		in.contextualLogger.WarnContext(ctx, msg, args...)
	}
}

func (in *instruments) error(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if in.logger != nil {
		in.logger.Error(msg, allArgs...)
	}

	if in.contextualLogger != nil {
		in.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

func (in *instruments) count(ctx context.Context, metric string, labels map[string]string) {
	if in.metrics == nil {
		return
	}

	if contextual, ok := in.metrics.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	in.metrics.IncrementCounter(metric, labels)
}

func (in *instruments) value(ctx context.Context, metric string, value float64, labels map[string]string) {
	if in.metrics == nil {
		return
	}

	if contextual, ok := in.metrics.(ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	in.metrics.RecordValue(metric, value, labels)
}

func (in *instruments) duration(ctx context.Context, metric string, d time.Duration, labels map[string]string) {
	if in.metrics == nil {
		return
	}

	if contextual, ok := in.metrics.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, d, labels)
		return
	}

	in.metrics.RecordDuration(metric, d, labels)
}

func (in *instruments) startSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext) {
	if in.tracing == nil {
		return ctx, nil
	}

	return in.tracing.StartSpan(ctx, name, attrs)
}

func (in *instruments) finishSpan(span SpanContext, status string, attrs map[string]string) {
	if in.tracing == nil || span == nil {
		return
	}

	in.tracing.FinishSpan(span, status, attrs)
}

// deferred records a queued callback and warns once the queue crosses the configured threshold.
func (in *instruments) deferred(ctx context.Context, kind EntityKind, mapID, id string, queued int) {
	if queued == 0 {
		return
	}

	in.count(ctx, metricCallbacksDeferred, map[string]string{labelKind: string(kind)})

	if in.queueWarnAt > 0 && queued == in.queueWarnAt+1 {
		in.warn(ctx, logMsgQueueLarge,
			logAttrKind, string(kind), logAttrMapID, mapID, logAttrID, id,
			logAttrPending, queued, logAttrThreshold, in.queueWarnAt)
		in.count(ctx, metricQueueWarnings, map[string]string{labelKind: string(kind)})
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
