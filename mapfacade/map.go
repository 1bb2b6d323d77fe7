package mapfacade

import "context"

// Map is the handle of one provider map and owns that map's markers, routes and bounds.
type Map struct {
	id        string
	container string
	options   MapOptions
	slot      slot[MapObject]
	markers   *entities[MarkerObject]
	routes    *entities[RouteRenderer]
	bounds    *boundsSet
	inst      *instruments
}

func newMap(id, container string, options MapOptions, s slot[MapObject], newBounds func() BoundsObject, inst *instruments) *Map {
	return &Map{
		id:        id,
		container: container,
		options:   options,
		slot:      s,
		markers:   newEntities[MarkerObject](KindMarker, id, inst),
		routes:    newEntities[RouteRenderer](KindRoute, id, inst),
		bounds:    newBoundsSet(id, newBounds, inst),
		inst:      inst,
	}
}

// ID returns the map identifier.
func (m *Map) ID() string {
	return m.id
}

// Container returns the container reference the map is rendered into.
func (m *Map) Container() string {
	return m.container
}

// Options returns a copy of the merged options the map is constructed with.
func (m *Map) Options() MapOptions {
	return m.options.Clone()
}

// Object returns the provider map, or false while the environment is not ready.
func (m *Map) Object() (MapObject, bool) {
	return m.slot.object()
}

// IsReady reports whether the provider map exists.
func (m *Map) IsReady() bool {
	_, ready := m.slot.object()
	return ready
}

// Pending returns the number of callbacks waiting for the provider map.
func (m *Map) Pending() int {
	return m.slot.pending()
}

// ExecuteOnLoad runs fn immediately if the provider map exists, otherwise once it is created.
func (m *Map) ExecuteOnLoad(fn func(*Map)) {
	m.executeOnLoad(context.Background(), fn)
}

func (m *Map) executeOnLoad(ctx context.Context, fn func(*Map)) {
	queued := m.slot.executeOnLoad(func() { fn(m) })
	m.inst.deferred(ctx, KindMap, m.id, m.id, queued)
}

// Marker returns the marker handle registered under markerID, which may be a stub.
func (m *Map) Marker(markerID string) (*Marker, error) {
	return m.markers.get(markerID)
}

// Route returns the route handle registered under routeID, which may be a stub.
func (m *Map) Route(routeID string) (*Route, error) {
	return m.routes.get(routeID)
}

// Bounds returns the bounds registered under boundsID.
func (m *Map) Bounds(boundsID string) (*Bounds, error) {
	return m.bounds.get(boundsID)
}

// MarkerIDs returns the sorted identifiers of all markers, stubs included.
func (m *Map) MarkerIDs() []string {
	return m.markers.ids()
}

// RouteIDs returns the sorted identifiers of all routes, stubs included.
func (m *Map) RouteIDs() []string {
	return m.routes.ids()
}

// BoundsIDs returns the sorted identifiers of all bounds.
func (m *Map) BoundsIDs() []string {
	return m.bounds.ids()
}
