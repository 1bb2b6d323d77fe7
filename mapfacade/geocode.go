package mapfacade

import "context"

// Geocode resolves address through the geocoder and calls callback with the results.
func (f *Facade) Geocode(ctx context.Context, address string, callback GeocodeCallback) {
	f.geocoderOrCreate().Geocode(ctx, GeocodeRequest{Address: address}, callback)
}

// ReverseGeocode resolves location to addresses and calls callback with the results.
func (f *Facade) ReverseGeocode(ctx context.Context, location LatLng, callback GeocodeCallback) {
	f.geocoderOrCreate().Geocode(ctx, GeocodeRequest{Location: &location}, callback)
}

// geocoderOrCreate returns the configured geocoder, creating and caching the provider's on first use.
func (f *Facade) geocoderOrCreate() Geocoder {
	if f.geocoder == nil {
		f.geocoder = f.provider.NewGeocoder()
	}

	return f.geocoder
}
