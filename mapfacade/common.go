package mapfacade

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

var (
	// ErrNotFound is returned when a map, marker, route or bounds identifier is not registered.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a stub is requested for an identifier bound to a real handle.
	ErrAlreadyExists = errors.New("already exists")

	// ErrRouteNotComputed is returned when a route is referenced but its routing response has not arrived yet.
	ErrRouteNotComputed = errors.New("route has not been computed yet")

	// ErrNilProvider is returned by New when no provider is supplied.
	ErrNilProvider = errors.New("nil provider supplied")

	// ErrInvalidDefaultZoom is returned by WithDefaultZoom for non-positive zoom levels.
	ErrInvalidDefaultZoom = errors.New("default zoom must be positive")
)

const maxSuggestionDistance = 2

// EntityKind names the kind of entity an identifier refers to.
type EntityKind string

const (
	KindMap    EntityKind = "map"
	KindMarker EntityKind = "marker"
	KindRoute  EntityKind = "route"
	KindBounds EntityKind = "bounds"
)

// LookupError describes a failed lookup by identifier.
// It unwraps to ErrNotFound or ErrAlreadyExists.
type LookupError struct {
	Kind       EntityKind
	MapID      string
	ID         string
	Suggestion string
	Err        error
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("%s: %s %q", e.Err, e.Kind, e.ID)
	if e.Kind != KindMap {
		msg += fmt.Sprintf(" on map %q", e.MapID)
	}

	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}

	return msg
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func notFound(kind EntityKind, mapID, id string, known []string) *LookupError {
	return &LookupError{
		Kind:       kind,
		MapID:      mapID,
		ID:         id,
		Suggestion: suggest(id, known),
		Err:        ErrNotFound,
	}
}

// suggest returns the known identifier closest to id, if any is within maxSuggestionDistance edits.
func suggest(id string, known []string) string {
	candidates := append([]string(nil), known...)
	sort.Strings(candidates)

	best := ""
	bestDistance := maxSuggestionDistance + 1

	for _, candidate := range candidates {
		if candidate == id {
			continue
		}

		if distance := levenshtein.ComputeDistance(id, candidate); distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}

	return best
}
