package main

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
)

// Step actions.
const (
	actionCreateMap        = "create_map"
	actionAddMarker        = "add_marker"
	actionRemoveMarker     = "remove_marker"
	actionAddMapEvent      = "add_map_event"
	actionAddMarkerEvent   = "add_marker_event"
	actionAddRoute         = "add_route"
	actionRemoveRoute      = "remove_route"
	actionAddRouteEvent    = "add_route_event"
	actionCreateBounds     = "create_bounds"
	actionExtendBounds     = "extend_bounds"
	actionFitBounds        = "fit_bounds"
	actionEnvironmentReady = "environment_ready"
	actionCompleteRoutes   = "complete_routes"
	actionSettle           = "settle"
	actionTrigger          = "trigger"
	actionGeocode          = "geocode"
	actionReverseGeocode   = "reverse_geocode"
	actionRouteDuration    = "route_duration"
)

var (
	ErrEmptyScenario   = errors.New("scenario has no steps")
	ErrUnknownAction   = errors.New("unknown step action")
	ErrMissingField    = errors.New("missing step field")
	ErrAmbiguousTarget = errors.New("step names more than one target")
)

// Scenario is a scripted run of facade operations and simulated provider signals.
type Scenario struct {
	Name     string           `yaml:"name"`
	Defaults Defaults         `yaml:"defaults"`
	Places   []Place          `yaml:"places"`
	Routes   []RouteFixture   `yaml:"routes"`
	Steps    []Step           `yaml:"steps"`
	Settings ScenarioSettings `yaml:"settings"`
}

// Defaults are applied through facade options.
type Defaults struct {
	Zoom       int            `yaml:"zoom"`
	MapOptions map[string]any `yaml:"map_options"`
}

// ScenarioSettings tune the facade for the run.
type ScenarioSettings struct {
	QueueWarnThreshold int `yaml:"queue_warn_threshold"`
}

// Place seeds the geocoder.
type Place struct {
	PlaceID string           `yaml:"place_id"`
	Address string           `yaml:"address"`
	At      mapfacade.LatLng `yaml:"at"`
}

// RouteFixture is the canned response for an origin/destination pair.
type RouteFixture struct {
	Origin      string                 `yaml:"origin"`
	Destination string                 `yaml:"destination"`
	Status      string                 `yaml:"status"`
	Legs        []int64                `yaml:"legs"`
	Bounds      mapfacade.LatLngBounds `yaml:"bounds"`
}

// Step is one scripted action. Which fields apply depends on Do.
type Step struct {
	Do          string            `yaml:"do"`
	Map         string            `yaml:"map"`
	ID          string            `yaml:"id"`
	Container   string            `yaml:"container"`
	Zoom        int               `yaml:"zoom"`
	Center      mapfacade.LatLng  `yaml:"center"`
	Options     map[string]any    `yaml:"options"`
	Position    mapfacade.LatLng  `yaml:"position"`
	Title       string            `yaml:"title"`
	Event       string            `yaml:"event"`
	Origin      string            `yaml:"origin"`
	Destination string            `yaml:"destination"`
	Waypoints   []string          `yaml:"waypoints"`
	TravelMode  string            `yaml:"travel_mode"`
	Marker      string            `yaml:"marker"`
	Route       string            `yaml:"route"`
	Address     string            `yaml:"address"`
	Location    *mapfacade.LatLng `yaml:"location"`
}

// LoadScenario decodes and validates a YAML scenario. Unknown fields are rejected.
func LoadScenario(r io.Reader) (Scenario, error) {
	var s Scenario

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Scenario{}, ErrEmptyScenario
		}

		return Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}

	return s, nil
}

// Validate checks that every step names a known action and carries its required fields.
func (s Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return ErrEmptyScenario
	}

	var errs []error
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			errs = append(errs, fmt.Errorf("step %d (%s): %w", i+1, step.Do, err))
		}
	}

	return errors.Join(errs...)
}

func (s Step) validate() error {
	switch s.Do {
	case actionCreateMap:
		return requireField(s.Map, "map")

	case actionAddMarker, actionRemoveMarker, actionAddRoute, actionRemoveRoute,
		actionCreateBounds, actionFitBounds, actionRouteDuration:
		if err := requireField(s.Map, "map"); err != nil {
			return err
		}
		if err := requireField(s.ID, "id"); err != nil {
			return err
		}
		if s.Do == actionAddRoute {
			return errors.Join(requireField(s.Origin, "origin"), requireField(s.Destination, "destination"))
		}

		return nil

	case actionAddMapEvent:
		return errors.Join(requireField(s.Map, "map"), requireField(s.Event, "event"))

	case actionAddMarkerEvent, actionAddRouteEvent:
		return errors.Join(requireField(s.Map, "map"), requireField(s.ID, "id"), requireField(s.Event, "event"))

	case actionExtendBounds:
		if err := errors.Join(requireField(s.Map, "map"), requireField(s.ID, "id")); err != nil {
			return err
		}

		return exactlyOneTarget(s.Marker, s.Route, true)

	case actionTrigger:
		if err := errors.Join(requireField(s.Map, "map"), requireField(s.Event, "event")); err != nil {
			return err
		}

		return exactlyOneTarget(s.Marker, s.Route, false)

	case actionGeocode:
		return requireField(s.Address, "address")

	case actionReverseGeocode:
		if s.Location == nil {
			return fmt.Errorf("%w: location", ErrMissingField)
		}

		return nil

	case actionEnvironmentReady, actionCompleteRoutes, actionSettle:
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, s.Do)
	}
}

func requireField(value, field string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, field)
	}

	return nil
}

func exactlyOneTarget(marker, route string, required bool) error {
	switch {
	case marker != "" && route != "":
		return ErrAmbiguousTarget
	case required && marker == "" && route == "":
		return fmt.Errorf("%w: marker or route", ErrMissingField)
	default:
		return nil
	}
}
