package mapfacade_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
	. "github.com/AntonStoeckl/deferred-maps-go/testutil/helper" //nolint:revive
)

func Test_FitToBounds_When_ExtensionsArriveOutOfOrder_Then_ViewportCoversEverything(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider, logSpy := GivenFacadeWithLogSpy(t)
	m := GivenReadyMap(t, ctx, facade, provider)
	provider.SetRoute("Vienna", "Graz", FixtureDirections(viennaToGrazEnvelope, 600), mapfacade.DirectionsOK)

	// act
	require.NoError(t, facade.ExtendBoundsWithMarker(ctx, m.ID(), "all", "linz"))
	require.NoError(t, facade.ExtendBoundsWithRoute(ctx, m.ID(), "all", "r1"))
	require.NoError(t, facade.FitToBounds(ctx, m.ID(), "all"))

	require.NoError(t, facade.AddMarker(ctx, m.ID(), "linz", mapfacade.MarkerOptions{
		Position: mapfacade.LatLng{Lat: 48.31, Lng: 14.29},
	}))
	require.NoError(t, facade.AddRoute(ctx, m.ID(), "r1", viennaToGraz, nil))
	provider.CompleteRoutes()
	provider.SettleAll()

	// assert
	viewport, ok := provider.Maps()[0].Viewport()
	require.True(t, ok)
	assert.Equal(t, mapfacade.LatLngBounds{
		SouthWest: mapfacade.LatLng{Lat: 47.07, Lng: 14.29},
		NorthEast: mapfacade.LatLng{Lat: 48.31, Lng: 16.37},
	}, viewport)
	assert.True(t,
		logSpy.HasInfoLogWithMessage("mapfacade operation: map fitted to bounds").WithAttr("id", "all").Assert(),
	)
}

func Test_FitToBounds_When_MapIsNotReady_Then_ItWaitsForReadyAndSettle(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider := GivenFacade(t)
	facade.CreateMap(ctx, "m1", "container", 5, mapfacade.LatLng{}, nil)

	require.NoError(t, facade.FitToBounds(ctx, "m1", "b1"))
	require.NoError(t, facade.ExtendBoundsWithMarker(ctx, "m1", "b1", "mk1"))
	require.NoError(t, facade.AddMarker(ctx, "m1", "mk1", mapfacade.MarkerOptions{Position: mapfacade.LatLng{Lat: 1, Lng: 2}}))

	// act
	provider.Load()

	// assert
	mapObj := provider.Maps()[0]
	_, fitted := mapObj.Viewport()
	assert.False(t, fitted, "fitting waits for the settle signal")
	assert.Equal(t, 1, provider.ListenerCount(mapObj, mapfacade.EventIdle))

	provider.Settle(mapObj)

	viewport, fitted := mapObj.Viewport()
	require.True(t, fitted)
	assert.Equal(t, mapfacade.LatLngBounds{
		SouthWest: mapfacade.LatLng{Lat: 1, Lng: 2},
		NorthEast: mapfacade.LatLng{Lat: 1, Lng: 2},
	}, viewport)
	assert.Equal(t, 0, provider.ListenerCount(mapObj, mapfacade.EventIdle), "the settle listener fires once")
}

func Test_CreateBounds_Then_PreviousExtensionsAreDiscarded(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider := GivenFacade(t)
	m := GivenReadyMap(t, ctx, facade, provider)

	require.NoError(t, facade.AddMarker(ctx, m.ID(), "mk1", mapfacade.MarkerOptions{Position: mapfacade.LatLng{Lat: 1, Lng: 1}}))
	require.NoError(t, facade.ExtendBoundsWithMarker(ctx, m.ID(), "b1", "mk1"))
	before, err := m.Bounds("b1")
	require.NoError(t, err)

	// act
	require.NoError(t, facade.CreateBounds(ctx, m.ID(), "b1"))

	// assert
	after, err := m.Bounds("b1")
	require.NoError(t, err)
	assert.NotSame(t, before, after)

	_, hasEnvelope := after.Envelope()
	assert.False(t, hasEnvelope)

	envelope, hasEnvelope := before.Envelope()
	assert.True(t, hasEnvelope)
	assert.Equal(t, mapfacade.LatLng{Lat: 1, Lng: 1}, envelope.SouthWest)
}

func Test_ExtendBoundsWithMarker_When_BoundsAreRecreatedBeforeMarkerExists_Then_ExtensionLandsInTheReplacedAggregate(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider := GivenFacade(t)
	m := GivenReadyMap(t, ctx, facade, provider)

	require.NoError(t, facade.ExtendBoundsWithMarker(ctx, m.ID(), "b1", "mk1"))
	captured, err := m.Bounds("b1")
	require.NoError(t, err)
	require.NoError(t, facade.CreateBounds(ctx, m.ID(), "b1"))

	// act
	require.NoError(t, facade.AddMarker(ctx, m.ID(), "mk1", mapfacade.MarkerOptions{Position: mapfacade.LatLng{Lat: 3, Lng: 4}}))

	// assert
	current, err := m.Bounds("b1")
	require.NoError(t, err)

	_, hasEnvelope := current.Envelope()
	assert.False(t, hasEnvelope)

	envelope, hasEnvelope := captured.Envelope()
	assert.True(t, hasEnvelope)
	assert.Equal(t, mapfacade.LatLng{Lat: 3, Lng: 4}, envelope.NorthEast)
}

func Test_ExtendBoundsWithRoute_When_RouteHasNoItineraries_Then_BoundsStayEmpty(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider := GivenFacade(t)
	m := GivenReadyMap(t, ctx, facade, provider)
	provider.SetRoute("Vienna", "Graz", mapfacade.DirectionsResult{}, mapfacade.DirectionsOK)

	// act
	require.NoError(t, facade.ExtendBoundsWithRoute(ctx, m.ID(), "b1", "r1"))
	require.NoError(t, facade.AddRoute(ctx, m.ID(), "r1", viennaToGraz, nil))
	provider.CompleteRoutes()

	// assert
	bounds, err := m.Bounds("b1")
	require.NoError(t, err)
	_, hasEnvelope := bounds.Envelope()
	assert.False(t, hasEnvelope)
}

func Test_Bounds_When_Unknown_Then_NotFound(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider := GivenFacade(t)
	m := GivenReadyMap(t, ctx, facade, provider)
	require.NoError(t, facade.CreateBounds(ctx, m.ID(), "overview"))

	// act
	_, err := m.Bounds("overveiw")

	// assert
	assert.ErrorIs(t, err, mapfacade.ErrNotFound)
	assert.ErrorContains(t, err, `did you mean "overview"`)
	assert.Equal(t, []string{"overview"}, m.BoundsIDs())
}
