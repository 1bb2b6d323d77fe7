package mapfacade

import (
	"context"
	"errors"
	"time"
)

// AddRoute requests directions once the map exists and installs a route renderer
// under routeID when the routing service answers. Every call uses a fresh routing
// service, so several requests on one map may be in flight at once. onReady, if not
// nil, runs after the route is installed and queued callbacks of a stub have run.
//
// A failed request is logged and leaves a stub under routeID pending. A response for
// a routeID that is already installed is ignored. Removing the route while its request
// is in flight does not cancel it.
func (f *Facade) AddRoute(
	ctx context.Context,
	mapID string,
	routeID string,
	request DirectionsRequest,
	onReady func(*Route),
) error {

	m, err := f.mapFor(ctx, mapID, "add_route")
	if err != nil {
		return err
	}

	m.executeOnLoad(ctx, func(m *Map) {
		spanCtx, span := f.inst.startSpan(ctx, spanNameRoute, map[string]string{
			spanAttrMapID:   m.id,
			spanAttrRouteID: routeID,
		})

		start := time.Now()

		f.provider.NewRoutingService().Route(spanCtx, request, func(result DirectionsResult, status DirectionsStatus) {
			f.installRoute(spanCtx, span, m, routeID, result, status, time.Since(start), onReady)
		})
	})

	return nil
}

func (f *Facade) installRoute(
	ctx context.Context,
	span SpanContext,
	m *Map,
	routeID string,
	result DirectionsResult,
	status DirectionsStatus,
	duration time.Duration,
	onReady func(*Route),
) {

	labels := map[string]string{labelStatus: string(status)}
	f.inst.duration(ctx, metricRouteDuration, duration, labels)
	spanAttrs := map[string]string{spanAttrStatus: string(status)}

	if status != DirectionsOK {
		f.inst.error(ctx, logMsgRouteFailed, errors.New(string(status)),
			logAttrMapID, m.id, logAttrID, routeID, logAttrStatus, string(status),
			logAttrDurationMS, toMilliseconds(duration))
		f.inst.count(ctx, metricRouteFailures, labels)
		f.inst.finishSpan(span, statusError, spanAttrs)

		return
	}

	route, added := m.routes.addReal(ctx, routeID, func() RouteRenderer {
		mapObj, _ := m.Object()
		renderer := f.provider.NewRouteRenderer()
		renderer.SetMap(mapObj)
		renderer.SetDirections(result)

		return renderer
	})
	if !added {
		f.inst.finishSpan(span, statusSuccess, spanAttrs)
		return
	}

	f.inst.info(ctx, logMsgOperation+logMsgRouteInstalled,
		logAttrMapID, m.id, logAttrID, routeID, logAttrDurationMS, toMilliseconds(duration))
	f.inst.finishSpan(span, statusSuccess, spanAttrs)

	if onReady != nil {
		onReady(route)
	}
}

// RemoveRoute detaches the route renderer from the map and forgets it once the map exists.
// Removing an unknown route is logged and otherwise ignored.
func (f *Facade) RemoveRoute(ctx context.Context, mapID, routeID string) error {
	m, err := f.mapFor(ctx, mapID, "remove_route")
	if err != nil {
		return err
	}

	m.executeOnLoad(ctx, func(m *Map) {
		if removeErr := m.routes.remove(ctx, routeID); removeErr != nil {
			f.inst.warn(ctx, logMsgOperation+logMsgRemoveUnknown, logAttrError, removeErr.Error())
		}
	})

	return nil
}

// AddRouteEvent subscribes handler to the route renderer's eventName, stubbing the route
// if it has not been installed yet.
func (f *Facade) AddRouteEvent(ctx context.Context, mapID, routeID, eventName string, handler EventHandler) error {
	m, err := f.mapFor(ctx, mapID, "add_route_event")
	if err != nil {
		return err
	}

	m.routes.resolveOrStub(ctx, routeID).executeOnLoad(ctx, func(route *Route) {
		renderer, _ := route.Object()
		f.provider.AddListener(renderer, eventName, handler)
	})

	return nil
}

// GetRouteDurationSeconds sums the leg durations of the route's first itinerary.
// A route without itineraries has a duration of 0. Unknown maps and routes, and routes
// whose directions have not arrived yet, fail with ErrNotFound.
func (f *Facade) GetRouteDurationSeconds(mapID, routeID string) (int64, error) {
	m, err := f.GetMap(mapID)
	if err != nil {
		return 0, err
	}

	route, err := m.routes.get(routeID)
	if err != nil {
		return 0, err
	}

	renderer, installed := route.Object()
	if !installed {
		return 0, errors.Join(
			&LookupError{Kind: KindRoute, MapID: mapID, ID: routeID, Err: ErrNotFound},
			ErrRouteNotComputed,
		)
	}

	return DurationSeconds(renderer.Directions()), nil
}

// DurationSeconds sums the leg durations of the first itinerary in result.
func DurationSeconds(result DirectionsResult) int64 {
	if len(result.Routes) == 0 {
		return 0
	}

	var total int64
	for _, leg := range result.Routes[0].Legs {
		total += leg.Duration.Value
	}

	return total
}
