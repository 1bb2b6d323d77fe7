package helper

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
	"github.com/AntonStoeckl/deferred-maps-go/mapfacade/memprovider"
)

// GivenUniqueID returns a time-ordered unique identifier for test data.
func GivenUniqueID(t testing.TB) string {
	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id.String()
}

// GivenFacade creates a Facade over a fresh memprovider.Provider with options applied.
func GivenFacade(t testing.TB, options ...mapfacade.Option) (*mapfacade.Facade, *memprovider.Provider) {
	provider := memprovider.New(memprovider.WithSequentialIDs())

	facade, err := mapfacade.New(provider, options...)
	require.NoError(t, err, "error in arranging the facade")

	return facade, provider
}

// GivenFacadeWithLogSpy creates a Facade that logs into a LogHandlerSpy.
func GivenFacadeWithLogSpy(t testing.TB, options ...mapfacade.Option) (*mapfacade.Facade, *memprovider.Provider, *LogHandlerSpy) {
	logSpy := NewLogHandlerSpy(false)
	options = append(options, mapfacade.WithLogger(slog.New(logSpy)))

	facade, provider := GivenFacade(t, options...)

	return facade, provider, logSpy
}

// GivenReadyMap creates a map on a facade whose environment is already loaded.
func GivenReadyMap(t testing.TB, ctx context.Context, facade *mapfacade.Facade, provider *memprovider.Provider) *mapfacade.Map {
	provider.Load()

	m := facade.CreateMap(ctx, GivenUniqueID(t), "container", 5, mapfacade.LatLng{Lat: 48.2, Lng: 16.37}, nil)
	require.True(t, m.IsReady(), "error in arranging a ready map")

	return m
}

// FixtureDirections builds a single-itinerary directions result with the given leg durations in seconds.
func FixtureDirections(envelope mapfacade.LatLngBounds, legSeconds ...int64) mapfacade.DirectionsResult {
	legs := make([]mapfacade.Leg, 0, len(legSeconds))
	for _, seconds := range legSeconds {
		legs = append(legs, mapfacade.Leg{Duration: mapfacade.Duration{Value: seconds}})
	}

	return mapfacade.DirectionsResult{
		Routes: []mapfacade.Itinerary{{Legs: legs, Bounds: envelope}},
	}
}
