package mapfacade

import "context"

// Handle is a marker or route handle: an identifier-addressable wrapper around a
// provider object that may not exist yet. A stub handle has no backing object and
// only accumulates callbacks.
type Handle[R any] struct {
	id    string
	mapID string
	kind  EntityKind
	slot  slot[R]
	inst  *instruments
}

// Marker is the handle of a provider marker.
type Marker = Handle[MarkerObject]

// Route is the handle of a provider route renderer.
type Route = Handle[RouteRenderer]

// ID returns the handle's identifier, unique within its map.
func (h *Handle[R]) ID() string {
	return h.id
}

// MapID returns the identifier of the owning map.
func (h *Handle[R]) MapID() string {
	return h.mapID
}

// Object returns the backing provider object, or false for a stub.
func (h *Handle[R]) Object() (R, bool) {
	return h.slot.object()
}

// IsStub reports whether the backing object is still absent.
func (h *Handle[R]) IsStub() bool {
	_, resolved := h.slot.object()
	return !resolved
}

// Pending returns the number of queued callbacks.
func (h *Handle[R]) Pending() int {
	return h.slot.pending()
}

// ExecuteOnLoad runs fn immediately if the backing object exists,
// otherwise it runs exactly once, in enqueue order, when the object is assigned.
func (h *Handle[R]) ExecuteOnLoad(fn func(*Handle[R])) {
	h.executeOnLoad(context.Background(), fn)
}

func (h *Handle[R]) executeOnLoad(ctx context.Context, fn func(*Handle[R])) {
	queued := h.slot.executeOnLoad(func() { fn(h) })
	h.inst.deferred(ctx, h.kind, h.mapID, h.id, queued)
}
