package mapfacade_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
	"github.com/AntonStoeckl/deferred-maps-go/mapfacade/memprovider"
	. "github.com/AntonStoeckl/deferred-maps-go/testutil/helper" //nolint:revive
)

func Test_AddMarker_When_MapIsReady_Then_MarkerIsAttachedAndMapCentered(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider := GivenFacade(t)
	m := GivenReadyMap(t, ctx, facade, provider)
	position := mapfacade.LatLng{Lat: 47.8, Lng: 13.04}

	// act
	err := facade.AddMarker(ctx, m.ID(), "mk1", mapfacade.MarkerOptions{Position: position, Title: "Salzburg"})

	// assert
	require.NoError(t, err)
	marker, err := m.Marker("mk1")
	require.NoError(t, err)

	obj, ok := marker.Object()
	require.True(t, ok)
	memMarker, ok := obj.(*memprovider.Marker)
	require.True(t, ok)
	mapObj, _ := m.Object()

	assert.Equal(t, position, memMarker.Position())
	assert.Equal(t, "Salzburg", memMarker.Title())
	assert.Same(t, mapObj, memMarker.Attached())
	assert.Equal(t, position, provider.Maps()[0].Center())
	assert.Equal(t, []string{"mk1"}, m.MarkerIDs())
}

func Test_AddMarker_When_MapIsNotReady_Then_MarkerIsAddedOnReady(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider := GivenFacade(t)
	m := facade.CreateMap(ctx, "m1", "container", 5, mapfacade.LatLng{}, nil)

	// act
	require.NoError(t, facade.AddMarker(ctx, "m1", "mk1", mapfacade.MarkerOptions{}))

	// assert
	_, err := m.Marker("mk1")
	assert.ErrorIs(t, err, mapfacade.ErrNotFound, "the marker does not exist before the map is ready")

	provider.Load()

	marker, err := m.Marker("mk1")
	require.NoError(t, err)
	assert.False(t, marker.IsStub())
}

func Test_AddMarker_When_MarkerAlreadyExists_Then_ItIsANoop(t *testing.T) {
	// setup
	ctx := context.Background()
	metricsSpy := NewMetricsCollectorSpy(true)
	facade, provider, logSpy := GivenFacadeWithLogSpy(t, mapfacade.WithMetrics(metricsSpy))
	m := GivenReadyMap(t, ctx, facade, provider)

	require.NoError(t, facade.AddMarker(ctx, m.ID(), "mk1", mapfacade.MarkerOptions{Title: "first"}))
	first, err := m.Marker("mk1")
	require.NoError(t, err)

	// act
	require.NoError(t, facade.AddMarker(ctx, m.ID(), "mk1", mapfacade.MarkerOptions{Title: "second"}))

	// assert
	second, err := m.Marker("mk1")
	require.NoError(t, err)
	assert.Same(t, first, second)

	obj, _ := second.Object()
	assert.Equal(t, "first", obj.(*memprovider.Marker).Title())
	assert.True(t,
		logSpy.HasInfoLogWithMessage("mapfacade operation: already added, ignoring").
			WithAttr("kind", "marker").
			WithAttr("id", "mk1").
			Assert(),
	)
	assert.True(t, metricsSpy.HasCounterRecordForMetric("mapfacade_duplicates_total").WithKind("marker").Assert())
}

func Test_AddMarkerEvent_When_CalledTwiceBeforeMarkerExists_Then_OneStubQueuesBothHandlers(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider, logSpy := GivenFacadeWithLogSpy(t)
	m := GivenReadyMap(t, ctx, facade, provider)
	var calls []string

	require.NoError(t, facade.AddMarkerEvent(ctx, m.ID(), "mk1", mapfacade.EventClick, func(mapfacade.Event) {
		calls = append(calls, "first")
	}))
	stub, err := m.Marker("mk1")
	require.NoError(t, err)

	// act
	require.NoError(t, facade.AddMarkerEvent(ctx, m.ID(), "mk1", mapfacade.EventClick, func(mapfacade.Event) {
		calls = append(calls, "second")
	}))

	// assert
	again, err := m.Marker("mk1")
	require.NoError(t, err)
	assert.Same(t, stub, again, "the stub is created once")
	assert.True(t, again.IsStub())
	assert.Equal(t, 2, again.Pending())
	assert.True(t,
		logSpy.HasInfoLogWithMessage("mapfacade operation: stub creation attempted on an existing stub").
			WithAttr("id", "mk1").
			Assert(),
	)

	require.NoError(t, facade.AddMarker(ctx, m.ID(), "mk1", mapfacade.MarkerOptions{}))

	upgraded, err := m.Marker("mk1")
	require.NoError(t, err)
	assert.Same(t, stub, upgraded, "the stub is upgraded in place")
	assert.Equal(t, 0, upgraded.Pending())

	obj, _ := upgraded.Object()
	assert.Equal(t, 2, provider.ListenerCount(obj, mapfacade.EventClick))

	provider.Trigger(obj, mapfacade.Event{Name: mapfacade.EventClick})
	assert.Equal(t, []string{"first", "second"}, calls)
}

func Test_AddMarkerEvent_When_MarkerExists_Then_HandlerIsAttachedImmediately(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider := GivenFacade(t)
	m := GivenReadyMap(t, ctx, facade, provider)
	require.NoError(t, facade.AddMarker(ctx, m.ID(), "mk1", mapfacade.MarkerOptions{}))

	// act
	require.NoError(t, facade.AddMarkerEvent(ctx, m.ID(), "mk1", mapfacade.EventClick, func(mapfacade.Event) {}))

	// assert
	marker, err := m.Marker("mk1")
	require.NoError(t, err)
	obj, _ := marker.Object()
	assert.Equal(t, 1, provider.ListenerCount(obj, mapfacade.EventClick))
}

func Test_RemoveMarker_Then_MarkerIsDetachedAndReAddYieldsAFreshHandle(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider := GivenFacade(t)
	m := GivenReadyMap(t, ctx, facade, provider)

	require.NoError(t, facade.AddMarkerEvent(ctx, m.ID(), "mk1", mapfacade.EventClick, func(mapfacade.Event) {}))
	require.NoError(t, facade.AddMarker(ctx, m.ID(), "mk1", mapfacade.MarkerOptions{}))
	original, err := m.Marker("mk1")
	require.NoError(t, err)
	originalObj, _ := original.Object()

	// act
	require.NoError(t, facade.RemoveMarker(ctx, m.ID(), "mk1"))
	require.NoError(t, facade.AddMarker(ctx, m.ID(), "mk1", mapfacade.MarkerOptions{}))

	// assert
	assert.Nil(t, originalObj.(*memprovider.Marker).Attached(), "the removed marker is detached")

	fresh, err := m.Marker("mk1")
	require.NoError(t, err)
	assert.NotSame(t, original, fresh)

	freshObj, _ := fresh.Object()
	assert.NotSame(t, originalObj, freshObj)
	assert.Equal(t, 0, provider.ListenerCount(freshObj, mapfacade.EventClick), "old subscriptions do not carry over")
}

func Test_RemoveMarker_When_MarkerIsAStub_Then_QueuedCallbacksAreDropped(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider, logSpy := GivenFacadeWithLogSpy(t)
	m := GivenReadyMap(t, ctx, facade, provider)

	require.NoError(t, facade.AddMarkerEvent(ctx, m.ID(), "mk1", mapfacade.EventClick, func(mapfacade.Event) {}))

	// act
	require.NoError(t, facade.RemoveMarker(ctx, m.ID(), "mk1"))
	require.NoError(t, facade.AddMarker(ctx, m.ID(), "mk1", mapfacade.MarkerOptions{}))

	// assert
	marker, err := m.Marker("mk1")
	require.NoError(t, err)
	obj, _ := marker.Object()
	assert.Equal(t, 0, provider.ListenerCount(obj, mapfacade.EventClick))
	assert.True(t,
		logSpy.HasInfoLogWithMessage("mapfacade operation: removed unresolved stub, dropping queued callbacks").
			WithAttr("pending_callbacks", "1").
			Assert(),
	)
}

func Test_RemoveMarker_When_MarkerIsUnknown_Then_WarningIsLogged(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider, logSpy := GivenFacadeWithLogSpy(t)
	m := GivenReadyMap(t, ctx, facade, provider)
	require.NoError(t, facade.AddMarker(ctx, m.ID(), "marker-1", mapfacade.MarkerOptions{}))

	// act
	err := facade.RemoveMarker(ctx, m.ID(), "marker-2")

	// assert
	assert.NoError(t, err)
	assert.True(t,
		logSpy.HasWarnLogWithMessage("mapfacade operation: remove of unknown identifier ignored").
			WithAttrKey("error").
			Assert(),
	)
	assert.Equal(t, []string{"marker-1"}, m.MarkerIDs())
}

func Test_AddMapEvent_When_MapIsNotReady_Then_HandlerIsAttachedOnReady(t *testing.T) {
	// setup
	ctx := context.Background()
	facade, provider := GivenFacade(t)
	facade.CreateMap(ctx, "m1", "container", 5, mapfacade.LatLng{}, nil)
	var events []string

	// act
	require.NoError(t, facade.AddMapEvent(ctx, "m1", "zoom_changed", func(e mapfacade.Event) {
		events = append(events, e.Name)
	}))
	provider.Load()

	// assert
	mapObj := provider.Maps()[0]
	assert.Equal(t, 1, provider.ListenerCount(mapObj, "zoom_changed"))

	provider.Trigger(mapObj, mapfacade.Event{Name: "zoom_changed"})
	assert.Equal(t, []string{"zoom_changed"}, events)
}

func Test_ExecuteOnLoad_When_QueueGrowsBeyondThreshold_Then_WarningIsLoggedOnce(t *testing.T) {
	// setup
	ctx := context.Background()
	metricsSpy := NewMetricsCollectorSpy(true)
	facade, provider, logSpy := GivenFacadeWithLogSpy(t,
		mapfacade.WithPendingCallbackWarnThreshold(2),
		mapfacade.WithMetrics(metricsSpy),
	)
	m := GivenReadyMap(t, ctx, facade, provider)
	noop := func(mapfacade.Event) {}

	// act
	for i := 0; i < 5; i++ {
		require.NoError(t, facade.AddMarkerEvent(ctx, m.ID(), "mk1", mapfacade.EventClick, noop))
	}

	// assert
	marker, err := m.Marker("mk1")
	require.NoError(t, err)
	assert.Equal(t, 5, marker.Pending(), "callbacks are never dropped")
	assert.True(t,
		logSpy.HasWarnLogWithMessage("pending callback queue exceeds warning threshold").
			WithAttr("id", "mk1").
			WithAttr("pending_callbacks", "3").
			Assert(),
	)
	assert.Equal(t, 1, metricsSpy.HasCounterRecordForMetric("mapfacade_queue_warnings_total").Count())
	assert.Equal(t, 5, metricsSpy.HasCounterRecordForMetric("mapfacade_callbacks_deferred_total").WithKind("marker").Count())
}
