package main

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
)

func givenScenarioFromFile(t *testing.T, path string) Scenario {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err, "error in arranging the scenario")
	defer func() { _ = f.Close() }()

	scenario, err := LoadScenario(f)
	require.NoError(t, err, "error in arranging the scenario")

	return scenario
}

func givenRunner(t *testing.T, scenario Scenario) *Runner {
	t.Helper()

	runner, err := NewRunner(scenario, nil, nil)
	require.NoError(t, err, "error in arranging the runner")

	return runner
}

func Test_Run_When_ScenarioIsComplete_Then_ReportReflectsEveryStep(t *testing.T) {
	// setup
	runner := givenRunner(t, givenScenarioFromFile(t, "testdata/vienna_graz.yaml"))

	// act
	report, err := runner.Run(context.Background())

	// assert
	require.NoError(t, err)
	assert.True(t, report.Ready)
	assert.Equal(t, "vienna to graz", report.Scenario)

	require.Len(t, report.Maps, 1)
	assert.Equal(t, MapReport{
		ID:      "m1",
		Ready:   true,
		Markers: []string{"home"},
		Routes:  []string{"r1"},
		Bounds:  []string{"all"},
	}, report.Maps[0])

	assert.Equal(t, []EventRecord{
		{Source: "map:m1", Event: "click"},
		{Source: "marker:m1/home", Event: "click"},
	}, report.Events)

	require.Len(t, report.Durations, 1)
	assert.Equal(t, int64(1800), report.Durations[0].Seconds)
	assert.Empty(t, report.Durations[0].Error)

	require.Len(t, report.Geocodes, 2)
	assert.Equal(t, mapfacade.GeocodeOK, report.Geocodes[0].Status)
	require.Len(t, report.Geocodes[0].Results, 1)
	assert.Equal(t, "graz-1", report.Geocodes[0].Results[0].PlaceID)
	assert.Equal(t, "48.2,16.3", report.Geocodes[1].Query)
	require.Len(t, report.Geocodes[1].Results, 1)
	assert.Equal(t, "vienna-1", report.Geocodes[1].Results[0].PlaceID)

	require.GreaterOrEqual(t, len(report.Transcript), 2)
	assert.Equal(t, "load", report.Transcript[0].Op)
	assert.Equal(t, "new_map", report.Transcript[1].Op)

	ops := make([]string, 0, len(report.Transcript))
	for _, call := range report.Transcript {
		ops = append(ops, call.Op)
	}
	assert.Contains(t, ops, "fit_bounds")
	assert.Contains(t, ops, "route_completed")
}

func Test_Run_When_MapIsCreated_Then_DefaultsAndStepOptionsAreMerged(t *testing.T) {
	// setup
	runner := givenRunner(t, givenScenarioFromFile(t, "testdata/vienna_graz.yaml"))

	// act
	_, err := runner.Run(context.Background())

	// assert
	require.NoError(t, err)

	maps := runner.provider.Maps()
	require.Len(t, maps, 1)
	assert.Equal(t, "map-canvas", maps[0].Container())

	options := maps[0].Options()
	assert.EqualValues(t, 6, options["zoom"], "the scenario default zoom applies")
	assert.Equal(t, "roadmap", options["mapTypeId"])

	var styles map[string]string
	found, decodeErr := options.Decode("styles", &styles)
	require.NoError(t, decodeErr)
	require.True(t, found)
	assert.Equal(t, map[string]string{"poi": "hidden", "transit": "visible"}, styles)

	viewport, fitted := maps[0].Viewport()
	require.True(t, fitted)
	assert.Equal(t, mapfacade.LatLngBounds{
		SouthWest: mapfacade.LatLng{Lat: 47.07, Lng: 14.29},
		NorthEast: mapfacade.LatLng{Lat: 48.31, Lng: 16.37},
	}, viewport)
}

func Test_Run_When_StepTargetsUnknownMap_Then_RunStopsWithLookupError(t *testing.T) {
	// setup
	runner := givenRunner(t, Scenario{Steps: []Step{
		{Do: actionCreateMap, Map: "vienna"},
		{Do: actionAddMarker, Map: "viena", ID: "k1"},
		{Do: actionEnvironmentReady},
	}})

	// act
	report, err := runner.Run(context.Background())

	// assert
	require.Error(t, err)
	assert.ErrorIs(t, err, mapfacade.ErrNotFound)
	assert.Contains(t, err.Error(), "step 2 (add_marker)")
	assert.Contains(t, err.Error(), `did you mean "vienna"`)
	assert.False(t, report.Ready, "steps after the failing one are not run")
	require.Len(t, report.Maps, 1)
	assert.Equal(t, 0, len(report.Transcript))
}

func Test_Run_When_TriggerTargetIsStillAStub_Then_ErrTargetNotResolved(t *testing.T) {
	// setup
	runner := givenRunner(t, Scenario{Steps: []Step{
		{Do: actionCreateMap, Map: "m1"},
		{Do: actionTrigger, Map: "m1", Event: "click"},
	}})

	// act
	_, err := runner.Run(context.Background())

	// assert
	assert.ErrorIs(t, err, ErrTargetNotResolved)
}

func Test_Run_When_DirectionsFail_Then_DurationLookupReportsTheError(t *testing.T) {
	// setup
	runner := givenRunner(t, Scenario{
		Routes: []RouteFixture{{Origin: "Vienna", Destination: "Atlantis", Status: "zero_results"}},
		Steps: []Step{
			{Do: actionCreateMap, Map: "m1"},
			{Do: actionEnvironmentReady},
			{Do: actionAddRoute, Map: "m1", ID: "r1", Origin: "Vienna", Destination: "Atlantis"},
			{Do: actionCompleteRoutes},
			{Do: actionRouteDuration, Map: "m1", ID: "r1"},
		},
	})

	// act
	report, err := runner.Run(context.Background())

	// assert
	require.NoError(t, err)
	require.Len(t, report.Durations, 1)
	assert.Equal(t, int64(0), report.Durations[0].Seconds)
	assert.NotEmpty(t, report.Durations[0].Error)
	assert.Empty(t, report.Maps[0].Routes, "failed routes are not installed")
}

func Test_Run_When_RouteEventPrecedesRouteAndMarkerIsRemoved_Then_OnlyLiveTargetsAreReported(t *testing.T) {
	// setup
	runner := givenRunner(t, Scenario{
		Routes: []RouteFixture{{Origin: "Linz", Destination: "Graz", Legs: []int64{100}}},
		Steps: []Step{
			{Do: actionEnvironmentReady},
			{Do: actionCreateMap, Map: "m1"},
			{Do: actionAddRouteEvent, Map: "m1", ID: "r1", Event: "click"},
			{Do: actionAddRoute, Map: "m1", ID: "r1", Origin: "Linz", Destination: "Graz"},
			{Do: actionCompleteRoutes},
			{Do: actionTrigger, Map: "m1", Route: "r1", Event: "click"},
			{Do: actionAddMarker, Map: "m1", ID: "k1"},
			{Do: actionRemoveMarker, Map: "m1", ID: "k1"},
		},
	})

	// act
	report, err := runner.Run(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, []EventRecord{{Source: "route:m1/r1", Event: "click"}}, report.Events)
	assert.Equal(t, []string{"r1"}, report.Maps[0].Routes)
	assert.Empty(t, report.Maps[0].Markers)
}
