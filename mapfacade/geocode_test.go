package mapfacade_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
	. "github.com/AntonStoeckl/deferred-maps-go/testutil/helper" //nolint:revive
)

type geocoderStub struct {
	requests []mapfacade.GeocodeRequest
}

func (g *geocoderStub) Geocode(_ context.Context, request mapfacade.GeocodeRequest, callback mapfacade.GeocodeCallback) {
	g.requests = append(g.requests, request)
	callback(nil, mapfacade.GeocodeZeroResults)
}

func Test_Geocode_Then_ProviderGeocoderIsCreatedOnceAndReused(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider := GivenFacade(t)
	provider.AddPlace(mapfacade.GeocodeResult{
		PlaceID:          "graz",
		FormattedAddress: "Hauptplatz 1, 8010 Graz, Austria",
		Location:         mapfacade.LatLng{Lat: 47.07, Lng: 15.44},
	})
	provider.AddPlace(mapfacade.GeocodeResult{
		PlaceID:          "vienna",
		FormattedAddress: "Stephansplatz 1, 1010 Vienna, Austria",
		Location:         mapfacade.LatLng{Lat: 48.21, Lng: 16.37},
	})

	var forward, reverse []mapfacade.GeocodeResult
	var forwardStatus, reverseStatus mapfacade.GeocodeStatus

	// act
	facade.Geocode(ctx, "graz", func(results []mapfacade.GeocodeResult, status mapfacade.GeocodeStatus) {
		forward, forwardStatus = results, status
	})
	facade.ReverseGeocode(ctx, mapfacade.LatLng{Lat: 48.2, Lng: 16.4}, func(results []mapfacade.GeocodeResult, status mapfacade.GeocodeStatus) {
		reverse, reverseStatus = results, status
	})

	// assert
	assert.Equal(t, mapfacade.GeocodeOK, forwardStatus)
	require.Len(t, forward, 1)
	assert.Equal(t, "graz", forward[0].PlaceID)

	assert.Equal(t, mapfacade.GeocodeOK, reverseStatus)
	require.Len(t, reverse, 1)
	assert.Equal(t, "vienna", reverse[0].PlaceID)

	assert.Equal(t, 1, countOps(provider, "new_geocoder"))
}

func Test_Geocode_WithGeocoder_Then_InjectedGeocoderIsUsed(t *testing.T) {
	// setup
	ctx := context.Background()
	injected := &geocoderStub{}
	facade, provider := GivenFacade(t, mapfacade.WithGeocoder(injected))
	var status mapfacade.GeocodeStatus

	// act
	facade.ReverseGeocode(ctx, mapfacade.LatLng{Lat: 1, Lng: 2}, func(_ []mapfacade.GeocodeResult, s mapfacade.GeocodeStatus) {
		status = s
	})

	// assert
	assert.Equal(t, mapfacade.GeocodeZeroResults, status)
	require.Len(t, injected.requests, 1)
	require.NotNil(t, injected.requests[0].Location)
	assert.Equal(t, mapfacade.LatLng{Lat: 1, Lng: 2}, *injected.requests[0].Location)
	assert.Equal(t, 0, countOps(provider, "new_geocoder"))
}
