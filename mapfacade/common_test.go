package mapfacade_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
)

func Test_LookupError(t *testing.T) {
	markerErr := &mapfacade.LookupError{
		Kind:       mapfacade.KindMarker,
		MapID:      "m1",
		ID:         "mk2",
		Suggestion: "mk1",
		Err:        mapfacade.ErrNotFound,
	}
	existsErr := &mapfacade.LookupError{
		Kind:  mapfacade.KindRoute,
		MapID: "m1",
		ID:    "r1",
		Err:   mapfacade.ErrAlreadyExists,
	}

	assert.Equal(t, `not found: marker "mk2" on map "m1" (did you mean "mk1"?)`, markerErr.Error())
	assert.Equal(t, `already exists: route "r1" on map "m1"`, existsErr.Error())
	assert.True(t, errors.Is(markerErr, mapfacade.ErrNotFound))
	assert.True(t, errors.Is(existsErr, mapfacade.ErrAlreadyExists))
	assert.False(t, errors.Is(existsErr, mapfacade.ErrNotFound))
}
