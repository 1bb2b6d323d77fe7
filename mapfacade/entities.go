package mapfacade

import (
	"context"
	"fmt"
	"sort"
)

// attachable provider objects can be detached from their map with SetMap(nil).
type attachable interface {
	SetMap(m MapObject)
}

// entities is the per-map registry of marker or route handles.
type entities[R attachable] struct {
	kind  EntityKind
	mapID string
	items map[string]*Handle[R]
	inst  *instruments
}

func newEntities[R attachable](kind EntityKind, mapID string, inst *instruments) *entities[R] {
	return &entities[R]{
		kind:  kind,
		mapID: mapID,
		items: make(map[string]*Handle[R]),
		inst:  inst,
	}
}

func (e *entities[R]) lookup(id string) (*Handle[R], bool) {
	handle, ok := e.items[id]
	return handle, ok
}

func (e *entities[R]) get(id string) (*Handle[R], error) {
	handle, ok := e.items[id]
	if !ok {
		return nil, notFound(e.kind, e.mapID, id, e.ids())
	}

	return handle, nil
}

// getOrCreateStub creates a stub for an unknown id, returns an existing stub unchanged
// and fails with ErrAlreadyExists for a resolved handle.
func (e *entities[R]) getOrCreateStub(ctx context.Context, id string) (*Handle[R], error) {
	handle, ok := e.items[id]
	if !ok {
		handle = e.newHandle(id, newStubSlot[R]())
		e.items[id] = handle
		e.inst.debug(ctx, logMsgOperation+logMsgStubCreated, logAttrKind, string(e.kind), logAttrMapID, e.mapID, logAttrID, id)
		e.inst.count(ctx, metricStubsCreated, map[string]string{labelKind: string(e.kind)})

		return handle, nil
	}

	if !handle.IsStub() {
		return nil, &LookupError{Kind: e.kind, MapID: e.mapID, ID: id, Err: ErrAlreadyExists}
	}

	e.inst.info(ctx, logMsgOperation+logMsgStubAlreadyCreated, logAttrKind, string(e.kind), logAttrMapID, e.mapID, logAttrID, id)

	return handle, nil
}

// resolveOrStub returns the handle registered under id. Resolved handles are returned
// as they are; otherwise the stub is fetched or created through getOrCreateStub.
func (e *entities[R]) resolveOrStub(ctx context.Context, id string) *Handle[R] {
	if handle, ok := e.lookup(id); ok && !handle.IsStub() {
		return handle
	}

	handle, err := e.getOrCreateStub(ctx, id)
	if err != nil {
		// only resolved handles fail, and those were returned above
		panic(fmt.Sprintf("mapfacade: inconsistent %s registry: %v", e.kind, err))
	}

	return handle
}

// addReal installs the object built by construct under id. A stub is upgraded in place
// and its queue drained. An already resolved handle is left untouched, construct is not
// called and false is returned.
func (e *entities[R]) addReal(ctx context.Context, id string, construct func() R) (*Handle[R], bool) {
	handle, ok := e.items[id]
	if ok && !handle.IsStub() {
		e.inst.info(ctx, logMsgOperation+logMsgAlreadyAdded, logAttrKind, string(e.kind), logAttrMapID, e.mapID, logAttrID, id)
		e.inst.count(ctx, metricDuplicates, map[string]string{labelKind: string(e.kind)})

		return handle, false
	}

	obj := construct()

	if !ok {
		handle = e.newHandle(id, newResolvedSlot(obj))
		e.items[id] = handle

		return handle, true
	}

	drained, _ := handle.slot.resolve(obj)

	e.inst.debug(ctx, logMsgOperation+logMsgHandleResolved,
		logAttrKind, string(e.kind), logAttrMapID, e.mapID, logAttrID, id, logAttrDrained, drained)
	e.inst.value(ctx, metricCallbacksDrained, float64(drained), map[string]string{labelKind: string(e.kind)})

	return handle, true
}

// remove detaches the backing object from its map and deletes the entry.
// A stub is dropped together with its queued callbacks.
func (e *entities[R]) remove(ctx context.Context, id string) error {
	handle, ok := e.items[id]
	if !ok {
		return notFound(e.kind, e.mapID, id, e.ids())
	}

	delete(e.items, id)

	obj, resolved := handle.Object()
	if !resolved {
		e.inst.info(ctx, logMsgOperation+logMsgRemovedStub,
			logAttrKind, string(e.kind), logAttrMapID, e.mapID, logAttrID, id, logAttrPending, handle.Pending())

		return nil
	}

	obj.SetMap(nil)
	e.inst.info(ctx, logMsgOperation+logMsgRemoved, logAttrKind, string(e.kind), logAttrMapID, e.mapID, logAttrID, id)

	return nil
}

func (e *entities[R]) ids() []string {
	ids := make([]string, 0, len(e.items))
	for id := range e.items {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

func (e *entities[R]) newHandle(id string, s slot[R]) *Handle[R] {
	return &Handle[R]{
		id:    id,
		mapID: e.mapID,
		kind:  e.kind,
		slot:  s,
		inst:  e.inst,
	}
}
