package gazetteer

import "github.com/AntonStoeckl/deferred-maps-go/mapfacade/gazetteer/internal/adapters"

// NewGazetteerWithAdapter exposes the adapter-level constructor to tests.
func NewGazetteerWithAdapter(db adapters.DBAdapter, options ...Option) (*Gazetteer, error) {
	return newGazetteer(db, options...)
}
