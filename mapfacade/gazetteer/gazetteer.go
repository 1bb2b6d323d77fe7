package gazetteer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
	"github.com/AntonStoeckl/deferred-maps-go/mapfacade/gazetteer/internal/adapters"
)

var (
	// ErrNilDatabaseConnection is returned when a constructor receives a nil connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTableName is returned by WithTableName for an empty name.
	ErrEmptyTableName = errors.New("table name must not be empty")

	// ErrInvalidMaxResults is returned by WithMaxResults for zero.
	ErrInvalidMaxResults = errors.New("max results must be positive")

	// ErrEmptyAddress is returned by Search for blank addresses.
	ErrEmptyAddress = errors.New("address must not be empty")

	// ErrBuildingQueryFailed is returned when goqu cannot render a statement.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrQueryingPlacesFailed is returned when the database rejects a places query.
	ErrQueryingPlacesFailed = errors.New("querying places failed")

	// ErrScanningDBRowFailed is returned when a places row cannot be scanned.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")

	// ErrStoringPlacesFailed is returned when places cannot be written.
	ErrStoringPlacesFailed = errors.New("storing places failed")

	// ErrCreatingTableFailed is returned when EnsureTable fails.
	ErrCreatingTableFailed = errors.New("creating places table failed")
)

const (
	defaultTableName       = "places"
	defaultMaxResults      = uint(10)
	dialectPostgres        = "postgres"
	colPlaceID             = "place_id"
	colFormattedAddress    = "formatted_address"
	colLat                 = "lat"
	colLng                 = "lng"
	squaredDistanceExpr    = "(? - ?) * (? - ?) + (? - ?) * (? - ?)"
	logMsgSQLExecuted      = "executed sql for: "
	logMsgOperation        = "gazetteer operation: "
	logMsgPlacesFound      = "places found"
	logMsgPlacesStored     = "places stored"
	logMsgBuildQueryFailed = "failed to build query"
	logMsgDBQueryFailed    = "database query execution failed"
	logMsgDBExecFailed     = "database execution failed"
	logMsgScanRowFailed    = "failed to scan database row"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrDurationMS      = "duration_ms"
	logAttrPlaceCount      = "place_count"
	logAttrRowsAffected    = "rows_affected"
	logActionSearch        = "search"
	logActionReverse       = "reverse"
	logActionStore         = "store"
	logActionEnsureTable   = "ensure_table"
)

// Gazetteer resolves addresses and locations against a PostgreSQL places table.
// It implements mapfacade.Geocoder and is safe for concurrent use.
type Gazetteer struct {
	db         adapters.DBAdapter
	tableName  string
	maxResults uint
	logger     Logger
}

// NewGazetteerFromPGXPool creates a Gazetteer using a pgx Pool with optional configuration.
func NewGazetteerFromPGXPool(db *pgxpool.Pool, options ...Option) (*Gazetteer, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newGazetteer(adapters.NewPGXAdapter(db), options...)
}

// NewGazetteerFromSQLDB creates a Gazetteer using a sql.DB with optional configuration.
func NewGazetteerFromSQLDB(db *sql.DB, options ...Option) (*Gazetteer, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newGazetteer(adapters.NewSQLAdapter(db), options...)
}

// NewGazetteerFromSQLX creates a Gazetteer using a sqlx.DB with optional configuration.
func NewGazetteerFromSQLX(db *sqlx.DB, options ...Option) (*Gazetteer, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newGazetteer(adapters.NewSQLXAdapter(db), options...)
}

func newGazetteer(db adapters.DBAdapter, options ...Option) (*Gazetteer, error) {
	g := &Gazetteer{
		db:         db,
		tableName:  defaultTableName,
		maxResults: defaultMaxResults,
	}

	for _, option := range options {
		if err := option(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Geocode implements mapfacade.Geocoder. The callback is invoked synchronously.
// Database failures are reported as mapfacade.GeocodeError.
func (g *Gazetteer) Geocode(ctx context.Context, request mapfacade.GeocodeRequest, callback mapfacade.GeocodeCallback) {
	var places []mapfacade.GeocodeResult
	var err error

	switch {
	case request.Location != nil:
		places, err = g.Reverse(ctx, *request.Location, 1)

	default:
		places, err = g.Search(ctx, request.Address)
	}

	switch {
	case errors.Is(err, ErrEmptyAddress):
		callback(nil, mapfacade.GeocodeInvalidRequest)
	case err != nil:
		callback(nil, mapfacade.GeocodeError)
	case len(places) == 0:
		callback(nil, mapfacade.GeocodeZeroResults)
	default:
		callback(places, mapfacade.GeocodeOK)
	}
}

// Search returns the places whose formatted address contains address, ignoring case,
// ordered by address and limited to the configured maximum.
func (g *Gazetteer) Search(ctx context.Context, address string) ([]mapfacade.GeocodeResult, error) {
	needle := strings.TrimSpace(address)
	if needle == "" {
		return nil, ErrEmptyAddress
	}

	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		From(g.tableName).
		Select(colPlaceID, colFormattedAddress, colLat, colLng).
		Where(goqu.C(colFormattedAddress).ILike("%" + escapeLike(needle) + "%")).
		Order(goqu.C(colFormattedAddress).Asc(), goqu.C(colPlaceID).Asc()).
		Limit(g.maxResults).
		ToSQL()
	if err != nil {
		g.logError(logMsgBuildQueryFailed, err)
		return nil, errors.Join(ErrBuildingQueryFailed, err)
	}

	return g.queryPlaces(ctx, sqlQuery, logActionSearch)
}

// Reverse returns up to limit places ordered by their planar distance to location.
func (g *Gazetteer) Reverse(ctx context.Context, location mapfacade.LatLng, limit uint) ([]mapfacade.GeocodeResult, error) {
	if limit == 0 {
		limit = 1
	}

	distance := goqu.L(squaredDistanceExpr,
		goqu.C(colLat), location.Lat, goqu.C(colLat), location.Lat,
		goqu.C(colLng), location.Lng, goqu.C(colLng), location.Lng,
	)

	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		From(g.tableName).
		Select(colPlaceID, colFormattedAddress, colLat, colLng).
		Order(distance.Asc(), goqu.C(colPlaceID).Asc()).
		Limit(limit).
		ToSQL()
	if err != nil {
		g.logError(logMsgBuildQueryFailed, err)
		return nil, errors.Join(ErrBuildingQueryFailed, err)
	}

	return g.queryPlaces(ctx, sqlQuery, logActionReverse)
}

// Store inserts places, updating address and location of already stored place ids.
func (g *Gazetteer) Store(ctx context.Context, places ...mapfacade.GeocodeResult) error {
	if len(places) == 0 {
		return nil
	}

	rows := make([]any, 0, len(places))
	for _, place := range places {
		rows = append(rows, goqu.Record{
			colPlaceID:          place.PlaceID,
			colFormattedAddress: place.FormattedAddress,
			colLat:              place.Location.Lat,
			colLng:              place.Location.Lng,
		})
	}

	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		Insert(g.tableName).
		Rows(rows...).
		OnConflict(goqu.DoUpdate(colPlaceID, goqu.Record{
			colFormattedAddress: goqu.L("EXCLUDED." + colFormattedAddress),
			colLat:              goqu.L("EXCLUDED." + colLat),
			colLng:              goqu.L("EXCLUDED." + colLng),
		})).
		ToSQL()
	if err != nil {
		g.logError(logMsgBuildQueryFailed, err)
		return errors.Join(ErrBuildingQueryFailed, err)
	}

	rowsAffected, err := g.exec(ctx, sqlQuery, logActionStore, ErrStoringPlacesFailed)
	if err != nil {
		return err
	}

	g.logInfo(logMsgOperation+logMsgPlacesStored, logAttrRowsAffected, rowsAffected)

	return nil
}

// EnsureTable creates the places table and its address index if they do not exist.
func (g *Gazetteer) EnsureTable(ctx context.Context) error {
	table := quoteIdentifier(g.tableName)

	statements := []string{
		fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s (%s TEXT PRIMARY KEY, %s TEXT NOT NULL, %s DOUBLE PRECISION NOT NULL, %s DOUBLE PRECISION NOT NULL)`,
			table, colPlaceID, colFormattedAddress, colLat, colLng,
		),
		fmt.Sprintf(
			`CREATE INDEX IF NOT EXISTS %s ON %s (lower(%s))`,
			quoteIdentifier(g.tableName+"_formatted_address_idx"), table, colFormattedAddress,
		),
	}

	for _, statement := range statements {
		if _, err := g.exec(ctx, statement, logActionEnsureTable, ErrCreatingTableFailed); err != nil {
			return err
		}
	}

	return nil
}

func (g *Gazetteer) queryPlaces(ctx context.Context, sqlQuery, action string) ([]mapfacade.GeocodeResult, error) {
	start := time.Now()
	rows, err := g.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	g.logQueryWithDuration(sqlQuery, action, duration)

	if err != nil {
		g.logError(logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		return nil, errors.Join(ErrQueryingPlacesFailed, err)
	}
	defer g.closeRows(rows)

	places := make([]mapfacade.GeocodeResult, 0)
	for rows.Next() {
		var place mapfacade.GeocodeResult
		if scanErr := rows.Scan(&place.PlaceID, &place.FormattedAddress, &place.Location.Lat, &place.Location.Lng); scanErr != nil {
			g.logError(logMsgScanRowFailed, scanErr)
			return nil, errors.Join(ErrScanningDBRowFailed, scanErr)
		}

		places = append(places, place)
	}

	if err := rows.Err(); err != nil {
		g.logError(logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		return nil, errors.Join(ErrQueryingPlacesFailed, err)
	}

	g.logInfo(logMsgOperation+logMsgPlacesFound,
		logAttrPlaceCount, len(places),
		logAttrDurationMS, durationToMilliseconds(duration))

	return places, nil
}

func (g *Gazetteer) exec(ctx context.Context, statement, action string, failure error) (int64, error) {
	start := time.Now()
	result, err := g.db.Exec(ctx, statement)
	g.logQueryWithDuration(statement, action, time.Since(start))

	if err != nil {
		g.logError(logMsgDBExecFailed, err, logAttrQuery, statement)
		return 0, errors.Join(failure, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		g.logError(logMsgDBExecFailed, err)
		return 0, errors.Join(failure, err)
	}

	return rowsAffected, nil
}

func (g *Gazetteer) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if g.logger != nil {
			g.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

func (g *Gazetteer) logQueryWithDuration(sqlQuery, action string, duration time.Duration) {
	if g.logger != nil {
		g.logger.Debug(logMsgSQLExecuted+action,
			logAttrDurationMS, durationToMilliseconds(duration),
			logAttrQuery, sqlQuery)
	}
}

func (g *Gazetteer) logInfo(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Info(msg, args...)
	}
}

func (g *Gazetteer) logError(msg string, err error, args ...any) {
	if g.logger != nil {
		g.logger.Error(msg, append([]any{logAttrError, err.Error()}, args...)...)
	}
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// escapeLike escapes the LIKE wildcards in s.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
