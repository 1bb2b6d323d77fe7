// Package mapfacade provides deferred, identifier-based access to objects of an
// asynchronously initialized map provider.
//
// Callers reference maps, markers, route renderers and viewport-fitting bounds
// by stable identifiers before the provider has created the underlying objects.
// Operations on such objects are queued on the owning handle and run exactly
// once, in arrival order, the moment the backing object becomes available.
//
// Key types:
//   - Facade: the map registry and entry point for every operation
//   - Map: a map handle owning the marker, route and bounds collections of one map
//   - Handle: a marker or route handle, either a stub (no backing object yet) or resolved
//   - Bounds: an aggregate envelope that extension operations fold positions into
//   - Provider: the boundary to the concrete map provider
//
// A Facade is confined to a single goroutine. Provider completions (routing
// responses, settle signals, the environment ready signal) must be delivered on
// the goroutine that owns the Facade.
//
// Common usage pattern:
//
//	facade, err := mapfacade.New(provider, mapfacade.WithLogger(logger))
//	if err != nil {
//		// handle error
//	}
//
//	facade.CreateMap(ctx, "m1", "map-container", 5, center, nil)
//	_ = facade.AddMarkerEvent(ctx, "m1", "mk1", mapfacade.EventClick, onClick)
//
//	// later, when the hosting environment has loaded
//	facade.EnvironmentReady(ctx)
//
//	_ = facade.AddMarker(ctx, "m1", "mk1", mapfacade.MarkerOptions{Position: position})
package mapfacade
