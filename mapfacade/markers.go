package mapfacade

import "context"

// AddMarker adds a marker to the map once the map exists. The map is centered on the
// marker's position. A stub registered under markerID is upgraded in place and its
// queued callbacks run before AddMarker returns when the map is ready. Adding a marker
// that already exists is a logged no-op.
func (f *Facade) AddMarker(ctx context.Context, mapID, markerID string, options MarkerOptions) error {
	m, err := f.mapFor(ctx, mapID, "add_marker")
	if err != nil {
		return err
	}

	m.executeOnLoad(ctx, func(m *Map) {
		m.markers.addReal(ctx, markerID, func() MarkerObject {
			mapObj, _ := m.Object()
			mapObj.SetCenter(options.Position)

			options.Map = mapObj

			return f.provider.NewMarker(options)
		})
	})

	return nil
}

// RemoveMarker detaches the marker from the map and forgets it once the map exists.
// Removing an unknown marker is logged and otherwise ignored.
func (f *Facade) RemoveMarker(ctx context.Context, mapID, markerID string) error {
	m, err := f.mapFor(ctx, mapID, "remove_marker")
	if err != nil {
		return err
	}

	m.executeOnLoad(ctx, func(m *Map) {
		if removeErr := m.markers.remove(ctx, markerID); removeErr != nil {
			f.inst.warn(ctx, logMsgOperation+logMsgRemoveUnknown, logAttrError, removeErr.Error())
		}
	})

	return nil
}

// AddMapEvent subscribes handler to the map's eventName once the map exists.
func (f *Facade) AddMapEvent(ctx context.Context, mapID, eventName string, handler EventHandler) error {
	m, err := f.mapFor(ctx, mapID, "add_map_event")
	if err != nil {
		return err
	}

	m.executeOnLoad(ctx, func(m *Map) {
		mapObj, _ := m.Object()
		f.provider.AddListener(mapObj, eventName, handler)
	})

	return nil
}

// AddMarkerEvent subscribes handler to the marker's eventName. The marker does not have
// to exist yet: a stub is registered and the handler is attached exactly once, right
// after the marker is created and before callbacks queued later.
func (f *Facade) AddMarkerEvent(ctx context.Context, mapID, markerID, eventName string, handler EventHandler) error {
	m, err := f.mapFor(ctx, mapID, "add_marker_event")
	if err != nil {
		return err
	}

	m.markers.resolveOrStub(ctx, markerID).executeOnLoad(ctx, func(marker *Marker) {
		obj, _ := marker.Object()
		f.provider.AddListener(obj, eventName, handler)
	})

	return nil
}
