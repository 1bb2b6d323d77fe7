package memprovider

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
)

const (
	opNewMap            = "new_map"
	opNewMarker         = "new_marker"
	opNewGeocoder       = "new_geocoder"
	opNewRoutingService = "new_routing_service"
	opNewRouteRenderer  = "new_route_renderer"
	opAddListener       = "add_listener"
	opSetCenter         = "set_center"
	opFitBounds         = "fit_bounds"
	opSetMap            = "set_map"
	opSetDirections     = "set_directions"
	opLoad              = "load"
	opTrigger           = "trigger"
	opRoute             = "route"
	opRouteCompleted    = "route_completed"
	opGeocode           = "geocode"
)

var transcriptJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Call is one recorded provider interaction.
type Call struct {
	Seq    int    `json:"seq"`
	Op     string `json:"op"`
	Target string `json:"target,omitempty"`
	Args   any    `json:"args,omitempty"`
}

type newMapArgs struct {
	Container string               `json:"container"`
	Options   mapfacade.MapOptions `json:"options"`
}

type newMarkerArgs struct {
	mapfacade.MarkerOptions
	Map string `json:"map,omitempty"`
}

type listenerArgs struct {
	Event string `json:"event"`
	Once  bool   `json:"once,omitempty"`
}

type routeCompletedArgs struct {
	Request mapfacade.DirectionsRequest `json:"request"`
	Status  mapfacade.DirectionsStatus  `json:"status"`
}

func (p *Provider) record(op, target string, args any) {
	p.transcript = append(p.transcript, Call{
		Seq:    len(p.transcript) + 1,
		Op:     op,
		Target: target,
		Args:   args,
	})
}

// Transcript returns the recorded calls in order.
func (p *Provider) Transcript() []Call {
	return append([]Call(nil), p.transcript...)
}

// Ops returns the operation names of the recorded calls in order.
func (p *Provider) Ops() []string {
	ops := make([]string, 0, len(p.transcript))
	for _, call := range p.transcript {
		ops = append(ops, call.Op)
	}

	return ops
}

// TranscriptJSON renders the transcript as indented JSON.
func (p *Provider) TranscriptJSON() ([]byte, error) {
	return transcriptJSON.MarshalIndent(p.transcript, "", "  ")
}
