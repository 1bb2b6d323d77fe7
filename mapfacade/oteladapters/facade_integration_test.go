package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
	"github.com/AntonStoeckl/deferred-maps-go/mapfacade/oteladapters"
	. "github.com/AntonStoeckl/deferred-maps-go/testutil/helper" //nolint:revive
)

func Test_Facade_When_WiredToOpenTelemetry_Then_SpansAndMetricsAreExported(t *testing.T) {
	// setup
	ctx := context.Background()
	tracer, exporter := givenTracer()
	meter, reader := givenMeter()
	recorder := &recordingLogger{}

	facade, provider := GivenFacade(t,
		mapfacade.WithTracing(oteladapters.NewTracingCollector(tracer)),
		mapfacade.WithMetrics(oteladapters.NewMetricsCollector(meter)),
		mapfacade.WithContextualLogger(oteladapters.NewOTelLogger(recorder)),
	)
	envelope := mapfacade.LatLngBounds{
		SouthWest: mapfacade.LatLng{Lat: 47.07, Lng: 15.44},
		NorthEast: mapfacade.LatLng{Lat: 48.21, Lng: 16.37},
	}
	provider.SetRoute("Vienna", "Graz", FixtureDirections(envelope, 600), mapfacade.DirectionsOK)

	// arrange
	m := facade.CreateMap(ctx, "m1", "container", 7, mapfacade.LatLng{Lat: 48.2, Lng: 16.37}, nil)
	require.NoError(t, facade.AddRoute(ctx, m.ID(), "r1", mapfacade.DirectionsRequest{
		Origin:      "Vienna",
		Destination: "Graz",
		TravelMode:  mapfacade.TravelModeDriving,
	}, nil))

	// act
	provider.Load()
	provider.CompleteRoutes()

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "mapfacade.environment_ready", spans[0].Name)
	assert.Equal(t, "mapfacade.route", spans[1].Name)
	assert.Equal(t, codes.Ok, spans[1].Status.Code)

	rm := collect(t, reader)
	created, ok := findMetric(t, rm, "mapfacade_maps_created_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, created.DataPoints, 1)
	assert.Equal(t, int64(1), created.DataPoints[0].Value)

	_, ok = findMetric(t, rm, "mapfacade_route_request_duration_seconds").Data.(metricdata.Histogram[float64])
	assert.True(t, ok)

	assert.NotEmpty(t, recorder.records, "facade operations should be logged through the OpenTelemetry logger")

	seconds, err := facade.GetRouteDurationSeconds("m1", "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(600), seconds)
}
