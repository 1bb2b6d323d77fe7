package dbconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/AntonStoeckl/deferred-maps-go/mapfacade/gazetteer"
)

// Supported adapter types.
const (
	AdapterPGXPool = "pgxpool"
	AdapterSQLDB   = "sqldb"
	AdapterSQLX    = "sqlx"
)

const (
	defaultMaxConnections    = int32(8)
	defaultMinConnections    = int32(2)
	defaultMaxOpenConns      = 10
	defaultMaxIdleConns      = 2
	defaultMaxConnLifetime   = time.Hour
	defaultMaxConnIdleTime   = time.Minute * 5
	defaultHealthCheckPeriod = time.Minute
	defaultConnectTimeout    = time.Second * 5
)

var (
	ErrEmptyDSN               = errors.New("empty dsn")
	ErrUnsupportedAdapterType = errors.New("unsupported adapter type")
	ErrConnectingFailed       = errors.New("connecting to the database failed")
)

// PGXPoolConfig creates a pgxpool.Config for dsn.
func PGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}

	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.MinConns = defaultMinConnections
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig, nil
}

// OpenPGXPool creates and pings a pgx pool for dsn.
func OpenPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	dbConfig, err := PGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return pool, nil
}

// OpenSQLDB opens and pings a *sql.DB over lib/pq for dsn.
func OpenSQLDB(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	configurePool(db)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return db, nil
}

// OpenSQLX opens and pings a *sqlx.DB over lib/pq for dsn.
func OpenSQLX(ctx context.Context, dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	configurePool(db.DB)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return db, nil
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)
}

// OpenGazetteer connects with the driver named by adapterType and builds a Gazetteer over it.
// An empty adapterType selects pgxpool. The returned close function releases the connection.
func OpenGazetteer(
	ctx context.Context,
	adapterType string,
	dsn string,
	options ...gazetteer.Option,
) (*gazetteer.Gazetteer, func(), error) {
	switch strings.ToLower(adapterType) {
	case AdapterPGXPool, "":
		pool, err := OpenPGXPool(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}

		g, err := gazetteer.NewGazetteerFromPGXPool(pool, options...)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return g, pool.Close, nil

	case AdapterSQLDB:
		db, err := OpenSQLDB(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}

		g, err := gazetteer.NewGazetteerFromSQLDB(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return g, func() { _ = db.Close() }, nil

	case AdapterSQLX:
		db, err := OpenSQLX(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}

		g, err := gazetteer.NewGazetteerFromSQLX(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return g, func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedAdapterType, adapterType)
	}
}
