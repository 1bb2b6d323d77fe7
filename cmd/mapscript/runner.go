package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
	"github.com/AntonStoeckl/deferred-maps-go/mapfacade/memprovider"
)

var ErrTargetNotResolved = errors.New("trigger target has no provider object yet")

// Report is the outcome of a scenario run.
type Report struct {
	Scenario   string             `json:"scenario,omitempty"`
	Ready      bool               `json:"ready"`
	Maps       []MapReport        `json:"maps"`
	Events     []EventRecord      `json:"events"`
	Geocodes   []GeocodeRecord    `json:"geocodes,omitempty"`
	Durations  []DurationRecord   `json:"durations,omitempty"`
	Transcript []memprovider.Call `json:"transcript"`
}

// MapReport lists the registered entities of a map after the run.
type MapReport struct {
	ID      string   `json:"id"`
	Ready   bool     `json:"ready"`
	Pending int      `json:"pending_callbacks"`
	Markers []string `json:"markers"`
	Routes  []string `json:"routes"`
	Bounds  []string `json:"bounds"`
}

// EventRecord is one delivered event handler call.
type EventRecord struct {
	Source string `json:"source"`
	Event  string `json:"event"`
}

// GeocodeRecord is one geocoding response.
type GeocodeRecord struct {
	Query   string                    `json:"query"`
	Status  mapfacade.GeocodeStatus   `json:"status"`
	Results []mapfacade.GeocodeResult `json:"results"`
}

// DurationRecord is the result of a route duration lookup.
type DurationRecord struct {
	Map     string `json:"map"`
	Route   string `json:"route"`
	Seconds int64  `json:"seconds"`
	Error   string `json:"error,omitempty"`
}

// Runner replays a Scenario against a Facade over an in-memory provider.
type Runner struct {
	scenario Scenario
	facade   *mapfacade.Facade
	provider *memprovider.Provider
	logger   *slog.Logger
	report   Report
}

// NewRunner prepares a fresh Facade and provider for scenario. A nil geocoder makes the
// facade geocode against the scenario places through the provider.
func NewRunner(scenario Scenario, geocoder mapfacade.Geocoder, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	provider := memprovider.New(memprovider.WithSequentialIDs())

	for _, fixture := range scenario.Routes {
		status := mapfacade.DirectionsStatus(strings.ToUpper(fixture.Status))
		if status == "" {
			status = mapfacade.DirectionsOK
		}

		provider.SetRoute(fixture.Origin, fixture.Destination, directionsFor(fixture), status)
	}

	for _, place := range scenario.Places {
		provider.AddPlace(place.toResult())
	}

	options := []mapfacade.Option{mapfacade.WithLogger(logger)}
	if scenario.Defaults.Zoom > 0 {
		options = append(options, mapfacade.WithDefaultZoom(scenario.Defaults.Zoom))
	}
	if scenario.Settings.QueueWarnThreshold > 0 {
		options = append(options, mapfacade.WithPendingCallbackWarnThreshold(scenario.Settings.QueueWarnThreshold))
	}
	if geocoder != nil {
		options = append(options, mapfacade.WithGeocoder(geocoder))
	}

	facade, err := mapfacade.New(provider, options...)
	if err != nil {
		return nil, err
	}

	return &Runner{
		scenario: scenario,
		facade:   facade,
		provider: provider,
		logger:   logger,
		report:   Report{Scenario: scenario.Name, Events: []EventRecord{}},
	}, nil
}

// Run executes all steps in order and stops at the first failing step.
// The report reflects the state reached so far in both cases.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	var runErr error

	for i, step := range r.scenario.Steps {
		if err := r.apply(ctx, step); err != nil {
			runErr = fmt.Errorf("step %d (%s): %w", i+1, step.Do, err)
			break
		}
	}

	r.report.Ready = r.facade.IsReady()
	r.report.Maps = r.mapReports()
	r.report.Transcript = r.provider.Transcript()

	return r.report, runErr
}

func (r *Runner) apply(ctx context.Context, step Step) error {
	switch step.Do {
	case actionCreateMap:
		return r.createMap(ctx, step)

	case actionAddMarker:
		return r.facade.AddMarker(ctx, step.Map, step.ID, mapfacade.MarkerOptions{
			Position: step.Position,
			Title:    step.Title,
		})

	case actionRemoveMarker:
		return r.facade.RemoveMarker(ctx, step.Map, step.ID)

	case actionAddMapEvent:
		return r.facade.AddMapEvent(ctx, step.Map, step.Event, r.recordEvent("map:"+step.Map))

	case actionAddMarkerEvent:
		return r.facade.AddMarkerEvent(ctx, step.Map, step.ID, step.Event, r.recordEvent("marker:"+step.Map+"/"+step.ID))

	case actionAddRoute:
		return r.facade.AddRoute(ctx, step.Map, step.ID, mapfacade.DirectionsRequest{
			Origin:      step.Origin,
			Destination: step.Destination,
			Waypoints:   step.Waypoints,
			TravelMode:  mapfacade.TravelMode(strings.ToUpper(step.TravelMode)),
		}, nil)

	case actionRemoveRoute:
		return r.facade.RemoveRoute(ctx, step.Map, step.ID)

	case actionAddRouteEvent:
		return r.facade.AddRouteEvent(ctx, step.Map, step.ID, step.Event, r.recordEvent("route:"+step.Map+"/"+step.ID))

	case actionCreateBounds:
		return r.facade.CreateBounds(ctx, step.Map, step.ID)

	case actionExtendBounds:
		if step.Marker != "" {
			return r.facade.ExtendBoundsWithMarker(ctx, step.Map, step.ID, step.Marker)
		}

		return r.facade.ExtendBoundsWithRoute(ctx, step.Map, step.ID, step.Route)

	case actionFitBounds:
		return r.facade.FitToBounds(ctx, step.Map, step.ID)

	case actionEnvironmentReady:
		r.provider.Load()

	case actionCompleteRoutes:
		completed := r.provider.CompleteRoutes()
		r.logger.DebugContext(ctx, "mapscript: routing requests completed", "count", completed)

	case actionSettle:
		r.provider.SettleAll()

	case actionTrigger:
		return r.trigger(step)

	case actionGeocode:
		r.facade.Geocode(ctx, step.Address, r.recordGeocode(step.Address))

	case actionReverseGeocode:
		query := fmt.Sprintf("%g,%g", step.Location.Lat, step.Location.Lng)
		r.facade.ReverseGeocode(ctx, *step.Location, r.recordGeocode(query))

	case actionRouteDuration:
		r.routeDuration(step)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, step.Do)
	}

	return nil
}

func (r *Runner) createMap(ctx context.Context, step Step) error {
	overrides, err := mapfacade.NormalizeMapOptions(step.Options)
	if err != nil {
		return err
	}

	defaults, err := mapfacade.NormalizeMapOptions(r.scenario.Defaults.MapOptions)
	if err != nil {
		return err
	}

	container := step.Container
	if container == "" {
		container = step.Map
	}

	r.facade.CreateMap(ctx, step.Map, container, step.Zoom, step.Center, mapfacade.MergeMapOptions(defaults, overrides))

	return nil
}

func (r *Runner) trigger(step Step) error {
	m, err := r.facade.GetMap(step.Map)
	if err != nil {
		return err
	}

	var target any
	var resolved bool

	switch {
	case step.Marker != "":
		marker, lookupErr := m.Marker(step.Marker)
		if lookupErr != nil {
			return lookupErr
		}
		target, resolved = marker.Object()

	case step.Route != "":
		route, lookupErr := m.Route(step.Route)
		if lookupErr != nil {
			return lookupErr
		}
		target, resolved = route.Object()

	default:
		target, resolved = m.Object()
	}

	if !resolved {
		return ErrTargetNotResolved
	}

	r.provider.Trigger(target, mapfacade.Event{Name: step.Event})

	return nil
}

func (r *Runner) routeDuration(step Step) {
	record := DurationRecord{Map: step.Map, Route: step.ID}

	seconds, err := r.facade.GetRouteDurationSeconds(step.Map, step.ID)
	if err != nil {
		record.Error = err.Error()
	}
	record.Seconds = seconds

	r.report.Durations = append(r.report.Durations, record)
}

func (r *Runner) recordEvent(source string) mapfacade.EventHandler {
	return func(event mapfacade.Event) {
		r.report.Events = append(r.report.Events, EventRecord{Source: source, Event: event.Name})
	}
}

func (r *Runner) recordGeocode(query string) mapfacade.GeocodeCallback {
	return func(results []mapfacade.GeocodeResult, status mapfacade.GeocodeStatus) {
		if results == nil {
			results = []mapfacade.GeocodeResult{}
		}

		r.report.Geocodes = append(r.report.Geocodes, GeocodeRecord{Query: query, Status: status, Results: results})
	}
}

func (r *Runner) mapReports() []MapReport {
	ids := r.facade.MapIDs()
	reports := make([]MapReport, 0, len(ids))

	for _, id := range ids {
		m, err := r.facade.GetMap(id)
		if err != nil {
			continue
		}

		reports = append(reports, MapReport{
			ID:      id,
			Ready:   m.IsReady(),
			Pending: m.Pending(),
			Markers: m.MarkerIDs(),
			Routes:  m.RouteIDs(),
			Bounds:  m.BoundsIDs(),
		})
	}

	return reports
}

func directionsFor(fixture RouteFixture) mapfacade.DirectionsResult {
	if len(fixture.Legs) == 0 {
		return mapfacade.DirectionsResult{}
	}

	legs := make([]mapfacade.Leg, 0, len(fixture.Legs))
	for _, seconds := range fixture.Legs {
		legs = append(legs, mapfacade.Leg{Duration: mapfacade.Duration{Value: seconds}})
	}

	return mapfacade.DirectionsResult{
		Routes: []mapfacade.Itinerary{{
			Summary: fixture.Origin + " - " + fixture.Destination,
			Legs:    legs,
			Bounds:  fixture.Bounds,
		}},
	}
}

func (p Place) toResult() mapfacade.GeocodeResult {
	return mapfacade.GeocodeResult{
		PlaceID:          p.PlaceID,
		FormattedAddress: p.Address,
		Location:         p.At,
	}
}
