package memprovider

import (
	"math"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
)

// Map is an in-memory provider map.
type Map struct {
	id        string
	container string
	options   mapfacade.MapOptions
	center    mapfacade.LatLng
	viewport  *mapfacade.LatLngBounds
	p         *Provider
}

// ID returns the provider-assigned identifier.
func (m *Map) ID() string {
	return m.id
}

// Container returns the container the map was constructed in.
func (m *Map) Container() string {
	return m.container
}

// Options returns the options the map was constructed with.
func (m *Map) Options() mapfacade.MapOptions {
	return m.options.Clone()
}

// Center returns the current center.
func (m *Map) Center() mapfacade.LatLng {
	return m.center
}

// Viewport returns the envelope of the last FitBounds call, or false if there was none
// or the fitted bounds were empty.
func (m *Map) Viewport() (mapfacade.LatLngBounds, bool) {
	if m.viewport == nil {
		return mapfacade.LatLngBounds{}, false
	}

	return *m.viewport, true
}

func (m *Map) SetCenter(center mapfacade.LatLng) {
	m.center = center
	m.p.record(opSetCenter, m.ref(), center)
}

func (m *Map) FitBounds(bounds mapfacade.BoundsObject) {
	envelope, ok := bounds.Envelope()
	if ok {
		m.viewport = &envelope
	}

	m.p.record(opFitBounds, m.ref(), fitArgs{Envelope: envelope, Empty: !ok})
}

func (m *Map) ref() string {
	return refMap + m.id
}

// Marker is an in-memory provider marker.
type Marker struct {
	id       string
	options  mapfacade.MarkerOptions
	attached mapfacade.MapObject
	p        *Provider
}

// ID returns the provider-assigned identifier.
func (m *Marker) ID() string {
	return m.id
}

// Title returns the marker's title.
func (m *Marker) Title() string {
	return m.options.Title
}

// Attached returns the map the marker is shown on, or nil once detached.
func (m *Marker) Attached() mapfacade.MapObject {
	return m.attached
}

func (m *Marker) Position() mapfacade.LatLng {
	return m.options.Position
}

func (m *Marker) SetMap(target mapfacade.MapObject) {
	m.attached = target
	m.p.record(opSetMap, m.ref(), refOf(target))
}

func (m *Marker) ref() string {
	return refMarker + m.id
}

// RouteRenderer is an in-memory directions renderer.
type RouteRenderer struct {
	id         string
	attached   mapfacade.MapObject
	directions mapfacade.DirectionsResult
	p          *Provider
}

// ID returns the provider-assigned identifier.
func (r *RouteRenderer) ID() string {
	return r.id
}

// Attached returns the map the route is shown on, or nil once detached.
func (r *RouteRenderer) Attached() mapfacade.MapObject {
	return r.attached
}

func (r *RouteRenderer) SetMap(target mapfacade.MapObject) {
	r.attached = target
	r.p.record(opSetMap, r.ref(), refOf(target))
}

func (r *RouteRenderer) SetDirections(result mapfacade.DirectionsResult) {
	r.directions = result
	r.p.record(opSetDirections, r.ref(), len(result.Routes))
}

func (r *RouteRenderer) Directions() mapfacade.DirectionsResult {
	return r.directions
}

func (r *RouteRenderer) ref() string {
	return refRoute + r.id
}

// Bounds is an in-memory bounds aggregate. It does not handle the antimeridian.
type Bounds struct {
	id       string
	envelope mapfacade.LatLngBounds
	set      bool
}

// ID returns the provider-assigned identifier.
func (b *Bounds) ID() string {
	return b.id
}

func (b *Bounds) Extend(point mapfacade.LatLng) {
	b.Union(mapfacade.LatLngBounds{SouthWest: point, NorthEast: point})
}

func (b *Bounds) Union(other mapfacade.LatLngBounds) {
	if !b.set {
		b.envelope = other
		b.set = true

		return
	}

	b.envelope.SouthWest.Lat = math.Min(b.envelope.SouthWest.Lat, other.SouthWest.Lat)
	b.envelope.SouthWest.Lng = math.Min(b.envelope.SouthWest.Lng, other.SouthWest.Lng)
	b.envelope.NorthEast.Lat = math.Max(b.envelope.NorthEast.Lat, other.NorthEast.Lat)
	b.envelope.NorthEast.Lng = math.Max(b.envelope.NorthEast.Lng, other.NorthEast.Lng)
}

func (b *Bounds) Envelope() (mapfacade.LatLngBounds, bool) {
	return b.envelope, b.set
}

type fitArgs struct {
	Envelope mapfacade.LatLngBounds `json:"envelope"`
	Empty    bool                   `json:"empty,omitempty"`
}

func refOf(target any) string {
	switch t := target.(type) {
	case *Map:
		if t == nil {
			return ""
		}
		return t.ref()
	case *Marker:
		return t.ref()
	case *RouteRenderer:
		return t.ref()
	case nil:
		return ""
	default:
		return refUnknown
	}
}
