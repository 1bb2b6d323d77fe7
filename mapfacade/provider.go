package mapfacade

import "context"

// Event names used by the Facade itself.
const (
	EventIdle  = "idle"
	EventClick = "click"
)

// LatLng is a geographic position in degrees.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// LatLngBounds is a rectangular envelope.
type LatLngBounds struct {
	SouthWest LatLng `json:"south_west" yaml:"south_west"`
	NorthEast LatLng `json:"north_east" yaml:"north_east"`
}

// Event is delivered to handlers registered with AddMapEvent, AddMarkerEvent and AddRouteEvent.
type Event struct {
	Name     string     `json:"name"`
	Position *LatLng    `json:"position,omitempty"`
	Data     MapOptions `json:"data,omitempty"`
}

// EventHandler handles a provider event.
type EventHandler func(Event)

// Listener is a provider event subscription.
type Listener interface {
	Remove()
}

// MarkerOptions configures a marker. Map is set by the Facade before construction.
type MarkerOptions struct {
	Position  LatLng     `json:"position" yaml:"position"`
	Title     string     `json:"title,omitempty" yaml:"title"`
	Label     string     `json:"label,omitempty" yaml:"label"`
	Icon      string     `json:"icon,omitempty" yaml:"icon"`
	Draggable bool       `json:"draggable,omitempty" yaml:"draggable"`
	Extra     MapOptions `json:"extra,omitempty" yaml:"extra"`
	Map       MapObject  `json:"-" yaml:"-"`
}

// TravelMode selects the routing profile.
type TravelMode string

const (
	TravelModeDriving   TravelMode = "DRIVING"
	TravelModeWalking   TravelMode = "WALKING"
	TravelModeBicycling TravelMode = "BICYCLING"
	TravelModeTransit   TravelMode = "TRANSIT"
)

// DirectionsRequest is passed through to the provider's routing service.
type DirectionsRequest struct {
	Origin      string     `json:"origin" yaml:"origin"`
	Destination string     `json:"destination" yaml:"destination"`
	Waypoints   []string   `json:"waypoints,omitempty" yaml:"waypoints"`
	TravelMode  TravelMode `json:"travel_mode,omitempty" yaml:"travel_mode"`
}

// DirectionsStatus is the routing service's completion status.
type DirectionsStatus string

const (
	DirectionsOK           DirectionsStatus = "OK"
	DirectionsNotFound     DirectionsStatus = "NOT_FOUND"
	DirectionsZeroResults  DirectionsStatus = "ZERO_RESULTS"
	DirectionsUnknownError DirectionsStatus = "UNKNOWN_ERROR"
)

// DirectionsResult holds the itineraries computed for a DirectionsRequest.
type DirectionsResult struct {
	Routes []Itinerary `json:"routes"`
}

// Itinerary is one computed route alternative.
type Itinerary struct {
	Summary string       `json:"summary,omitempty"`
	Legs    []Leg        `json:"legs"`
	Bounds  LatLngBounds `json:"bounds"`
}

// Leg is a section of an itinerary between two stops.
type Leg struct {
	StartAddress string   `json:"start_address,omitempty"`
	EndAddress   string   `json:"end_address,omitempty"`
	Duration     Duration `json:"duration"`
	Distance     Distance `json:"distance"`
}

// Duration of a leg; Value is in seconds.
type Duration struct {
	Value int64  `json:"value"`
	Text  string `json:"text,omitempty"`
}

// Distance of a leg; Value is in meters.
type Distance struct {
	Value int64  `json:"value"`
	Text  string `json:"text,omitempty"`
}

// DirectionsCallback receives the routing service's response.
type DirectionsCallback func(result DirectionsResult, status DirectionsStatus)

// GeocodeRequest carries either an address (forward geocoding) or a location (reverse geocoding).
type GeocodeRequest struct {
	Address  string  `json:"address,omitempty"`
	Location *LatLng `json:"location,omitempty"`
}

// GeocodeStatus is the geocoder's completion status.
type GeocodeStatus string

const (
	GeocodeOK             GeocodeStatus = "OK"
	GeocodeZeroResults    GeocodeStatus = "ZERO_RESULTS"
	GeocodeInvalidRequest GeocodeStatus = "INVALID_REQUEST"
	GeocodeError          GeocodeStatus = "ERROR"
)

// GeocodeResult is one geocoding match.
type GeocodeResult struct {
	PlaceID          string `json:"place_id,omitempty"`
	FormattedAddress string `json:"formatted_address"`
	Location         LatLng `json:"location"`
}

// GeocodeCallback receives the geocoder's response.
type GeocodeCallback func(results []GeocodeResult, status GeocodeStatus)

// MapObject is the provider's map.
type MapObject interface {
	SetCenter(center LatLng)
	FitBounds(bounds BoundsObject)
}

// MarkerObject is the provider's marker. SetMap(nil) detaches it.
type MarkerObject interface {
	Position() LatLng
	SetMap(m MapObject)
}

// RouteRenderer is the provider's directions renderer. SetMap(nil) detaches it.
type RouteRenderer interface {
	SetMap(m MapObject)
	SetDirections(result DirectionsResult)
	Directions() DirectionsResult
}

// BoundsObject is the provider's mutable bounds aggregate.
// Envelope reports false while nothing has been folded in.
type BoundsObject interface {
	Extend(point LatLng)
	Union(other LatLngBounds)
	Envelope() (LatLngBounds, bool)
}

// Geocoder resolves addresses to locations and back.
type Geocoder interface {
	Geocode(ctx context.Context, request GeocodeRequest, callback GeocodeCallback)
}

// RoutingService computes routes; the callback is invoked once, asynchronously or not.
type RoutingService interface {
	Route(ctx context.Context, request DirectionsRequest, callback DirectionsCallback)
}

// Provider is the boundary to the concrete map provider.
type Provider interface {
	NewMap(container string, options MapOptions) MapObject
	NewMarker(options MarkerOptions) MarkerObject
	NewGeocoder() Geocoder
	NewRoutingService() RoutingService
	NewRouteRenderer() RouteRenderer
	NewBounds() BoundsObject
	AddListener(target any, eventName string, handler EventHandler) Listener
	AddListenerOnce(target any, eventName string, handler EventHandler) Listener
}

// ReadyNotifier is implemented by providers that emit the hosting environment's
// one-time "fully loaded" signal themselves. New subscribes Facade.EnvironmentReady to it.
// A subscriber added after the signal fired must be called immediately.
type ReadyNotifier interface {
	OnEnvironmentReady(fn func())
}
