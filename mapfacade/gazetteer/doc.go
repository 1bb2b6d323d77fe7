// Package gazetteer provides a PostgreSQL-backed mapfacade.Geocoder.
//
// Places are stored in a single table (see schema.sql). Forward geocoding matches
// addresses case-insensitively by substring; reverse geocoding returns the places
// nearest to a location. The Gazetteer runs over pgxpool.Pool, sql.DB (lib/pq) or
// sqlx.DB:
//
//	pool, err := pgxpool.New(ctx, dsn)
//	if err != nil {
//		// handle error
//	}
//
//	places, err := gazetteer.NewGazetteerFromPGXPool(pool, gazetteer.WithMaxResults(5))
//	if err != nil {
//		// handle error
//	}
//
//	facade, err := mapfacade.New(provider, mapfacade.WithGeocoder(places))
package gazetteer
