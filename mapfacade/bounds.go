package mapfacade

import (
	"context"
	"sort"
)

// Bounds is an aggregate envelope registered under an identifier on one map.
// Its provider object exists from the first reference on; it has no stub state.
type Bounds struct {
	id    string
	mapID string
	obj   BoundsObject
}

// ID returns the bounds identifier, unique within its map.
func (b *Bounds) ID() string {
	return b.id
}

// MapID returns the identifier of the owning map.
func (b *Bounds) MapID() string {
	return b.mapID
}

// Object returns the provider's bounds aggregate.
func (b *Bounds) Object() BoundsObject {
	return b.obj
}

// Envelope returns the current envelope, or false while nothing was folded in.
func (b *Bounds) Envelope() (LatLngBounds, bool) {
	return b.obj.Envelope()
}

type boundsSet struct {
	mapID     string
	items     map[string]*Bounds
	newObject func() BoundsObject
	inst      *instruments
}

func newBoundsSet(mapID string, newObject func() BoundsObject, inst *instruments) *boundsSet {
	return &boundsSet{
		mapID:     mapID,
		items:     make(map[string]*Bounds),
		newObject: newObject,
		inst:      inst,
	}
}

func (s *boundsSet) lookup(id string) (*Bounds, bool) {
	bounds, ok := s.items[id]
	return bounds, ok
}

func (s *boundsSet) get(id string) (*Bounds, error) {
	bounds, ok := s.items[id]
	if !ok {
		return nil, notFound(KindBounds, s.mapID, id, s.ids())
	}

	return bounds, nil
}

// getOrCreate creates an empty aggregate on first reference and returns the same instance afterwards.
func (s *boundsSet) getOrCreate(ctx context.Context, id string) *Bounds {
	if bounds, ok := s.items[id]; ok {
		return bounds
	}

	return s.replace(ctx, id)
}

// replace always installs a fresh empty aggregate, discarding prior extensions.
func (s *boundsSet) replace(ctx context.Context, id string) *Bounds {
	bounds := &Bounds{id: id, mapID: s.mapID, obj: s.newObject()}
	s.items[id] = bounds
	s.inst.debug(ctx, logMsgOperation+logMsgBoundsCreated, logAttrMapID, s.mapID, logAttrID, id)

	return bounds
}

func (s *boundsSet) ids() []string {
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// CreateBounds registers a fresh empty aggregate under boundsID, replacing any previous one.
func (f *Facade) CreateBounds(ctx context.Context, mapID, boundsID string) error {
	m, err := f.mapFor(ctx, mapID, "create_bounds")
	if err != nil {
		return err
	}

	m.bounds.replace(ctx, boundsID)

	return nil
}

// ExtendBoundsWithMarker folds the marker's position into the aggregate once the marker exists.
// Unknown markers are stubbed, so the marker may be added later.
// The aggregate registered under boundsID is captured now: after a CreateBounds for the
// same boundsID, a pending extension lands in the replaced aggregate, not the new one.
func (f *Facade) ExtendBoundsWithMarker(ctx context.Context, mapID, boundsID, markerID string) error {
	m, err := f.mapFor(ctx, mapID, "extend_bounds_with_marker")
	if err != nil {
		return err
	}

	bounds := m.bounds.getOrCreate(ctx, boundsID)
	marker := m.markers.resolveOrStub(ctx, markerID)

	marker.executeOnLoad(ctx, func(marker *Marker) {
		obj, _ := marker.Object()
		bounds.obj.Extend(obj.Position())
	})

	return nil
}

// ExtendBoundsWithRoute folds the envelope of the route's first itinerary into the aggregate
// once the route exists. Routes without itineraries leave the aggregate unchanged.
// As with ExtendBoundsWithMarker, the aggregate is captured at call time.
func (f *Facade) ExtendBoundsWithRoute(ctx context.Context, mapID, boundsID, routeID string) error {
	m, err := f.mapFor(ctx, mapID, "extend_bounds_with_route")
	if err != nil {
		return err
	}

	bounds := m.bounds.getOrCreate(ctx, boundsID)
	route := m.routes.resolveOrStub(ctx, routeID)

	route.executeOnLoad(ctx, func(route *Route) {
		renderer, _ := route.Object()

		directions := renderer.Directions()
		if len(directions.Routes) == 0 {
			return
		}

		bounds.obj.Union(directions.Routes[0].Bounds)
	})

	return nil
}

// FitToBounds applies the aggregate to the map's viewport. It waits for the map to exist
// and then for the provider's next settle signal; the aggregate registered under boundsID
// at that moment is used.
func (f *Facade) FitToBounds(ctx context.Context, mapID, boundsID string) error {
	m, err := f.mapFor(ctx, mapID, "fit_to_bounds")
	if err != nil {
		return err
	}

	m.executeOnLoad(ctx, func(m *Map) {
		mapObj, _ := m.Object()

		f.provider.AddListenerOnce(mapObj, EventIdle, func(Event) {
			bounds := m.bounds.getOrCreate(ctx, boundsID)
			mapObj.FitBounds(bounds.obj)
			f.inst.info(ctx, logMsgOperation+logMsgBoundsFitted, logAttrMapID, m.id, logAttrID, boundsID)
		})
	})

	return nil
}
