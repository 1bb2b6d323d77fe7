package memprovider

import (
	"context"
	"strings"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
)

type geocoder struct {
	p *Provider
}

// Geocode answers synchronously from the places registered with AddPlace.
// Forward requests match addresses case-insensitively by substring; reverse requests
// return the nearest place.
func (g *geocoder) Geocode(_ context.Context, request mapfacade.GeocodeRequest, callback mapfacade.GeocodeCallback) {
	g.p.record(opGeocode, "", request)

	switch {
	case request.Location != nil:
		callback(g.nearest(*request.Location))

	case strings.TrimSpace(request.Address) != "":
		callback(g.matching(request.Address))

	default:
		callback(nil, mapfacade.GeocodeInvalidRequest)
	}
}

func (g *geocoder) matching(address string) ([]mapfacade.GeocodeResult, mapfacade.GeocodeStatus) {
	needle := strings.ToLower(strings.TrimSpace(address))

	var results []mapfacade.GeocodeResult
	for _, place := range g.p.places {
		if strings.Contains(strings.ToLower(place.FormattedAddress), needle) {
			results = append(results, place)
		}
	}

	if len(results) == 0 {
		return nil, mapfacade.GeocodeZeroResults
	}

	return results, mapfacade.GeocodeOK
}

func (g *geocoder) nearest(location mapfacade.LatLng) ([]mapfacade.GeocodeResult, mapfacade.GeocodeStatus) {
	if len(g.p.places) == 0 {
		return nil, mapfacade.GeocodeZeroResults
	}

	best := g.p.places[0]
	bestDistance := squaredDistance(location, best.Location)

	for _, place := range g.p.places[1:] {
		if distance := squaredDistance(location, place.Location); distance < bestDistance {
			best = place
			bestDistance = distance
		}
	}

	return []mapfacade.GeocodeResult{best}, mapfacade.GeocodeOK
}

func squaredDistance(a, b mapfacade.LatLng) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng

	return dLat*dLat + dLng*dLng
}
