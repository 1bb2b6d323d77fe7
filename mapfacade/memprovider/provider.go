package memprovider

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
)

const (
	refMap     = "map:"
	refMarker  = "marker:"
	refRoute   = "route:"
	refUnknown = "unknown"
)

// Option configures a Provider.
type Option func(*Provider)

// WithSequentialIDs replaces the random object identifiers with "1", "2", ... so that
// transcripts are reproducible.
func WithSequentialIDs() Option {
	return func(p *Provider) {
		p.newID = func() string {
			p.seq++
			return fmt.Sprintf("%d", p.seq)
		}
	}
}

// WithDefaultRoute sets the response for routing requests without a matching SetRoute entry.
// Without it such requests complete with mapfacade.DirectionsZeroResults.
func WithDefaultRoute(result mapfacade.DirectionsResult, status mapfacade.DirectionsStatus) Option {
	return func(p *Provider) {
		p.defaultRoute = routeResponse{result: result, status: status}
	}
}

type routeResponse struct {
	result mapfacade.DirectionsResult
	status mapfacade.DirectionsStatus
}

type pendingRoute struct {
	request  mapfacade.DirectionsRequest
	callback mapfacade.DirectionsCallback
}

// Provider implements mapfacade.Provider and mapfacade.ReadyNotifier in memory.
// It is not safe for concurrent use.
type Provider struct {
	newID        func() string
	seq          int
	readyFns     []func()
	loaded       bool
	listeners    []*listener
	routes       map[string]routeResponse
	defaultRoute routeResponse
	pending      []pendingRoute
	places       []mapfacade.GeocodeResult
	maps         []*Map
	transcript   []Call
}

// New creates an empty Provider.
func New(options ...Option) *Provider {
	p := &Provider{
		newID:        uuid.NewString,
		routes:       make(map[string]routeResponse),
		defaultRoute: routeResponse{status: mapfacade.DirectionsZeroResults},
	}

	for _, option := range options {
		option(p)
	}

	return p
}

func (p *Provider) NewMap(container string, options mapfacade.MapOptions) mapfacade.MapObject {
	m := &Map{
		id:        p.newID(),
		container: container,
		options:   options.Clone(),
		p:         p,
	}

	var center mapfacade.LatLng
	if ok, err := options.Decode("center", &center); ok && err == nil {
		m.center = center
	}

	p.maps = append(p.maps, m)
	p.record(opNewMap, m.ref(), newMapArgs{Container: container, Options: options})

	return m
}

func (p *Provider) NewMarker(options mapfacade.MarkerOptions) mapfacade.MarkerObject {
	m := &Marker{
		id:       p.newID(),
		options:  options,
		attached: options.Map,
		p:        p,
	}

	p.record(opNewMarker, m.ref(), newMarkerArgs{MarkerOptions: options, Map: refOf(options.Map)})

	return m
}

func (p *Provider) NewGeocoder() mapfacade.Geocoder {
	p.record(opNewGeocoder, "", nil)
	return &geocoder{p: p}
}

func (p *Provider) NewRoutingService() mapfacade.RoutingService {
	p.record(opNewRoutingService, "", nil)
	return &routingService{p: p}
}

func (p *Provider) NewRouteRenderer() mapfacade.RouteRenderer {
	r := &RouteRenderer{id: p.newID(), p: p}
	p.record(opNewRouteRenderer, r.ref(), nil)

	return r
}

func (p *Provider) NewBounds() mapfacade.BoundsObject {
	return &Bounds{id: p.newID()}
}

func (p *Provider) AddListener(target any, eventName string, handler mapfacade.EventHandler) mapfacade.Listener {
	return p.addListener(target, eventName, handler, false)
}

func (p *Provider) AddListenerOnce(target any, eventName string, handler mapfacade.EventHandler) mapfacade.Listener {
	return p.addListener(target, eventName, handler, true)
}

func (p *Provider) addListener(target any, eventName string, handler mapfacade.EventHandler, once bool) *listener {
	l := &listener{target: target, event: eventName, handler: handler, once: once}
	p.listeners = append(p.listeners, l)
	p.record(opAddListener, refOf(target), listenerArgs{Event: eventName, Once: once})

	return l
}

// OnEnvironmentReady subscribes fn to Load. If Load already ran, fn is called immediately.
func (p *Provider) OnEnvironmentReady(fn func()) {
	if p.loaded {
		fn()
		return
	}

	p.readyFns = append(p.readyFns, fn)
}

// Load emits the environment ready signal to every subscriber, in subscription order.
// Only the first call has an effect.
func (p *Provider) Load() {
	if p.loaded {
		return
	}

	p.loaded = true
	p.record(opLoad, "", len(p.readyFns))

	for _, fn := range p.readyFns {
		fn()
	}
}

// Trigger delivers event to the listeners registered on target for event.Name.
// One-time listeners are removed before their handler runs. It returns the number of
// handlers invoked.
func (p *Provider) Trigger(target any, event mapfacade.Event) int {
	p.record(opTrigger, refOf(target), event.Name)

	var matching []*listener
	for _, l := range p.listeners {
		if l.target == target && l.event == event.Name && !l.removed {
			matching = append(matching, l)
		}
	}

	for _, l := range matching {
		if l.removed {
			continue
		}

		if l.once {
			l.removed = true
		}

		l.handler(event)
	}

	p.compactListeners()

	return len(matching)
}

// Settle emits the idle signal of target.
func (p *Provider) Settle(target mapfacade.MapObject) int {
	return p.Trigger(target, mapfacade.Event{Name: mapfacade.EventIdle})
}

// SettleAll emits the idle signal of every map, in construction order.
func (p *Provider) SettleAll() int {
	invoked := 0
	for _, m := range p.maps {
		invoked += p.Settle(m)
	}

	return invoked
}

// ListenerCount returns the number of active listeners on target for eventName.
func (p *Provider) ListenerCount(target any, eventName string) int {
	count := 0
	for _, l := range p.listeners {
		if l.target == target && l.event == eventName && !l.removed {
			count++
		}
	}

	return count
}

// Maps returns the constructed maps in construction order.
func (p *Provider) Maps() []*Map {
	return append([]*Map(nil), p.maps...)
}

// SetRoute configures the response for requests from origin to destination.
func (p *Provider) SetRoute(origin, destination string, result mapfacade.DirectionsResult, status mapfacade.DirectionsStatus) {
	p.routes[routeKey(origin, destination)] = routeResponse{result: result, status: status}
}

// PendingRoutes returns the number of routing requests waiting for CompleteRoutes.
func (p *Provider) PendingRoutes() int {
	return len(p.pending)
}

// CompleteRoutes delivers every queued routing response in request order, including
// responses to requests issued while completing. It returns the number delivered.
func (p *Provider) CompleteRoutes() int {
	delivered := 0
	for len(p.pending) > 0 {
		delivered++
		p.completeRoute(0)
	}

	return delivered
}

// CompleteRoute delivers the i-th queued routing response out of order.
func (p *Provider) CompleteRoute(i int) bool {
	if i < 0 || i >= len(p.pending) {
		return false
	}

	p.completeRoute(i)

	return true
}

func (p *Provider) completeRoute(i int) {
	request := p.pending[i]
	p.pending = append(p.pending[:i], p.pending[i+1:]...)

	response, ok := p.routes[routeKey(request.request.Origin, request.request.Destination)]
	if !ok {
		response = p.defaultRoute
	}

	p.record(opRouteCompleted, "", routeCompletedArgs{Request: request.request, Status: response.status})
	request.callback(response.result, response.status)
}

// AddPlace registers a geocoding match for the in-memory geocoder.
func (p *Provider) AddPlace(place mapfacade.GeocodeResult) {
	p.places = append(p.places, place)
}

func (p *Provider) compactListeners() {
	active := p.listeners[:0]
	for _, l := range p.listeners {
		if !l.removed {
			active = append(active, l)
		}
	}

	p.listeners = active
}

func routeKey(origin, destination string) string {
	return strings.ToLower(origin) + "\x00" + strings.ToLower(destination)
}

type listener struct {
	target  any
	event   string
	handler mapfacade.EventHandler
	once    bool
	removed bool
}

func (l *listener) Remove() {
	l.removed = true
}

type routingService struct {
	p *Provider
}

// Route queues the request until the driver calls CompleteRoutes.
func (s *routingService) Route(_ context.Context, request mapfacade.DirectionsRequest, callback mapfacade.DirectionsCallback) {
	s.p.pending = append(s.p.pending, pendingRoute{request: request, callback: callback})
	s.p.record(opRoute, "", request)
}
