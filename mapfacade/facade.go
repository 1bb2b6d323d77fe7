package mapfacade

import (
	"context"
	"fmt"
	"sort"
)

const defaultZoom = 8

// Facade is the process- or session-wide registry of map handles and the entry point
// for every operation. It is not safe for concurrent use.
type Facade struct {
	provider    Provider
	maps        map[string]*Map
	pendingInit []*Map
	ready       oneShot
	geocoder    Geocoder
	defaultZoom int
	inst        *instruments
}

// New creates a Facade over provider with optional configuration.
// If provider implements ReadyNotifier, its ready signal triggers EnvironmentReady.
func New(provider Provider, options ...Option) (*Facade, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}

	f := &Facade{
		provider:    provider,
		maps:        make(map[string]*Map),
		ready:       newOneShot(),
		defaultZoom: defaultZoom,
		inst:        &instruments{},
	}

	for _, option := range options {
		if err := option(f); err != nil {
			return nil, err
		}
	}

	if notifier, ok := provider.(ReadyNotifier); ok {
		notifier.OnEnvironmentReady(func() {
			f.EnvironmentReady(context.Background())
		})
	}

	return f, nil
}

// CreateMap registers a map handle under mapID. options are deep-merged over the
// defaults {zoom, center}; explicit options win. A non-positive zoom falls back to the
// default zoom.
//
// If the environment is ready the provider map is constructed immediately, otherwise
// construction is queued until EnvironmentReady. Creation never fails. Calling CreateMap
// again with a registered mapID is a logged no-op that returns the existing handle.
func (f *Facade) CreateMap(
	ctx context.Context,
	mapID string,
	container string,
	zoom int,
	center LatLng,
	options MapOptions,
) *Map {

	if existing, ok := f.maps[mapID]; ok {
		f.inst.info(ctx, logMsgOperation+logMsgMapAlreadyCreated, logAttrMapID, mapID)
		f.inst.count(ctx, metricDuplicates, map[string]string{labelKind: string(KindMap)})

		return existing
	}

	if zoom <= 0 {
		zoom = f.defaultZoom
	}

	merged := f.mergeMapOptions(ctx, MapOptions{"zoom": zoom, "center": center}, options)
	deferred := !f.ready.fired()

	s := newStubSlot[MapObject]()
	if !deferred {
		s = newResolvedSlot(f.provider.NewMap(container, merged))
	}

	m := newMap(mapID, container, merged, s, f.provider.NewBounds, f.inst)
	f.maps[mapID] = m

	if deferred {
		f.pendingInit = append(f.pendingInit, m)
	}

	f.inst.info(ctx, logMsgOperation+logMsgMapCreated, logAttrMapID, mapID, logAttrDeferred, deferred)
	f.inst.count(ctx, metricMapsCreated, map[string]string{logAttrDeferred: fmt.Sprintf("%t", deferred)})

	return m
}

// GetMap returns the map handle registered under mapID.
func (f *Facade) GetMap(mapID string) (*Map, error) {
	m, ok := f.maps[mapID]
	if !ok {
		return nil, notFound(KindMap, mapID, mapID, f.MapIDs())
	}

	return m, nil
}

// MapIDs returns the sorted identifiers of all registered maps.
func (f *Facade) MapIDs() []string {
	ids := make([]string, 0, len(f.maps))
	for id := range f.maps {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// OnMapReady runs fn with the map handle as soon as the provider map exists.
func (f *Facade) OnMapReady(ctx context.Context, mapID string, fn func(*Map)) error {
	m, err := f.mapFor(ctx, mapID, "on_map_ready")
	if err != nil {
		return err
	}

	m.executeOnLoad(ctx, fn)

	return nil
}

// IsReady reports whether the environment ready signal has fired.
func (f *Facade) IsReady() bool {
	return f.ready.fired()
}

// Ready returns a channel that is closed once the environment ready signal has fired.
func (f *Facade) Ready() <-chan struct{} {
	return f.ready.done
}

// EnvironmentReady is the hosting environment's one-time "fully loaded" signal.
// For every map created before it, in creation order, the provider map is constructed
// and the map's queued callbacks are run in FIFO order. All pending maps are processed
// before it returns; maps created from within those callbacks are constructed immediately.
// Later calls are logged no-ops.
func (f *Facade) EnvironmentReady(ctx context.Context) {
	if !f.ready.fire() {
		f.inst.info(ctx, logMsgOperation+logMsgEnvironmentReadyAgain)
		return
	}

	pending := f.pendingInit
	f.pendingInit = nil

	spanCtx, span := f.inst.startSpan(ctx, spanNameEnvironmentReady, map[string]string{
		spanAttrPendingMaps: fmt.Sprintf("%d", len(pending)),
	})

	drainedTotal := 0

	for _, m := range pending {
		drained, _ := m.slot.resolve(f.provider.NewMap(m.container, m.options))
		drainedTotal += drained

		f.inst.info(spanCtx, logMsgOperation+logMsgMapInitialized, logAttrMapID, m.id, logAttrDrained, drained)
		f.inst.value(spanCtx, metricCallbacksDrained, float64(drained), map[string]string{labelKind: string(KindMap)})
	}

	f.inst.info(spanCtx, logMsgOperation+logMsgEnvironmentReady, logAttrPendingMaps, len(pending), logAttrDrained, drainedTotal)
	f.inst.finishSpan(span, statusSuccess, map[string]string{spanAttrDrained: fmt.Sprintf("%d", drainedTotal)})
}

// mapFor resolves mapID for an operation and logs unknown maps.
func (f *Facade) mapFor(ctx context.Context, mapID, operation string) (*Map, error) {
	m, err := f.GetMap(mapID)
	if err != nil {
		f.inst.error(ctx, logMsgOperation+logMsgUnknownMap, err, logAttrOperation, operation, logAttrMapID, mapID)
		return nil, err
	}

	return m, nil
}

func (f *Facade) mergeMapOptions(ctx context.Context, defaults, overrides MapOptions) MapOptions {
	normalizedDefaults, err := NormalizeMapOptions(defaults)
	if err != nil {
		f.inst.warn(ctx, logMsgOptionsNotNormalized, logAttrError, err.Error())
		return shallowMerge(defaults, overrides)
	}

	normalizedOverrides, err := NormalizeMapOptions(overrides)
	if err != nil {
		f.inst.warn(ctx, logMsgOptionsNotNormalized, logAttrError, err.Error())
		return shallowMerge(normalizedDefaults, overrides)
	}

	return MergeMapOptions(normalizedDefaults, normalizedOverrides)
}

func shallowMerge(base, override MapOptions) MapOptions {
	merged := make(MapOptions, len(base)+len(override))
	for key, value := range base {
		merged[key] = value
	}

	for key, value := range override {
		merged[key] = value
	}

	return merged
}
