package gazetteer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
	"github.com/AntonStoeckl/deferred-maps-go/testutil/helper/postgreswrapper"
)

var fixturePlaces = []mapfacade.GeocodeResult{
	{PlaceID: "vienna-1", FormattedAddress: "Stephansplatz 1, 1010 Wien", Location: mapfacade.LatLng{Lat: 48.2085, Lng: 16.3731}},
	{PlaceID: "graz-1", FormattedAddress: "Hauptplatz 1, 8010 Graz", Location: mapfacade.LatLng{Lat: 47.0707, Lng: 15.4382}},
	{PlaceID: "linz-1", FormattedAddress: "Hauptplatz 1, 4020 Linz", Location: mapfacade.LatLng{Lat: 48.3059, Lng: 14.2862}},
}

func Test_Postgres_Search_When_PlacesAreStored_Then_MatchesAreReturnedInAddressOrder(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer postgreswrapper.CleanUp(t, wrapper)
	g := wrapper.GetGazetteer()

	// arrange
	require.NoError(t, g.Store(ctx, fixturePlaces...))

	// act
	places, err := g.Search(ctx, "hauptplatz")

	// assert
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "graz-1", places[0].PlaceID)
	assert.Equal(t, "linz-1", places[1].PlaceID)
}

func Test_Postgres_Store_When_PlaceIDExists_Then_PlaceIsUpdated(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer postgreswrapper.CleanUp(t, wrapper)
	g := wrapper.GetGazetteer()

	// arrange
	require.NoError(t, g.Store(ctx, fixturePlaces[0]))
	moved := fixturePlaces[0]
	moved.FormattedAddress = "Stephansplatz 3, 1010 Wien"

	// act
	require.NoError(t, g.Store(ctx, moved))

	// assert
	places, err := g.Search(ctx, "stephansplatz")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Stephansplatz 3, 1010 Wien", places[0].FormattedAddress)
}

func Test_Postgres_Reverse_When_LocationIsGiven_Then_NearestPlaceComesFirst(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer postgreswrapper.CleanUp(t, wrapper)
	g := wrapper.GetGazetteer()

	// arrange
	require.NoError(t, g.Store(ctx, fixturePlaces...))

	// act
	places, err := g.Reverse(ctx, mapfacade.LatLng{Lat: 47.1, Lng: 15.4}, 1)

	// assert
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "graz-1", places[0].PlaceID)
}

func Test_Postgres_Geocode_When_UsedByFacade_Then_CallbackReceivesPlaces(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer postgreswrapper.CleanUp(t, wrapper)
	g := wrapper.GetGazetteer()
	require.NoError(t, g.Store(ctx, fixturePlaces...))

	var results []mapfacade.GeocodeResult
	var status mapfacade.GeocodeStatus

	// act
	g.Geocode(ctx, mapfacade.GeocodeRequest{Address: "Wien"}, func(r []mapfacade.GeocodeResult, s mapfacade.GeocodeStatus) {
		results, status = r, s
	})

	// assert
	assert.Equal(t, mapfacade.GeocodeOK, status)
	require.Len(t, results, 1)
	assert.InDelta(t, 48.2085, results[0].Location.Lat, 0.00001)
}
