// Package postgreswrapper opens a Gazetteer against a real PostgreSQL database for integration tests.
//
// The database is taken from GAZETTEER_TEST_DSN; tests are skipped when it is unset.
// ADAPTER_TYPE selects the driver: pgxpool (default), sqldb or sqlx.
package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/deferred-maps-go/internal/dbconfig"
	"github.com/AntonStoeckl/deferred-maps-go/mapfacade/gazetteer"
)

const (
	envDSN         = "GAZETTEER_TEST_DSN"
	envAdapterType = "ADAPTER_TYPE"
)

// Wrapper abstracts over the different driver types.
type Wrapper interface {
	GetGazetteer() *gazetteer.Gazetteer
	TableName() string
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool  *pgxpool.Pool
	g     *gazetteer.Gazetteer
	table string
}

func (w *PGXPoolWrapper) GetGazetteer() *gazetteer.Gazetteer { return w.g }

func (w *PGXPoolWrapper) TableName() string { return w.table }

func (w *PGXPoolWrapper) Close() { w.pool.Close() }

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db    *sql.DB
	g     *gazetteer.Gazetteer
	table string
}

func (w *SQLDBWrapper) GetGazetteer() *gazetteer.Gazetteer { return w.g }

func (w *SQLDBWrapper) TableName() string { return w.table }

func (w *SQLDBWrapper) Close() { _ = w.db.Close() }

// SQLXWrapper wraps sqlx-based testing
type SQLXWrapper struct {
	db    *sqlx.DB
	g     *gazetteer.Gazetteer
	table string
}

func (w *SQLXWrapper) GetGazetteer() *gazetteer.Gazetteer { return w.g }

func (w *SQLXWrapper) TableName() string { return w.table }

func (w *SQLXWrapper) Close() { _ = w.db.Close() }

// CreateWrapperWithTestConfig creates the wrapper selected by ADAPTER_TYPE over a fresh, uniquely
// named places table. The table is created before returning.
func CreateWrapperWithTestConfig(t testing.TB, options ...gazetteer.Option) Wrapper {
	dsn := os.Getenv(envDSN)
	if dsn == "" {
		t.Skipf("%s is not set, skipping PostgreSQL integration test", envDSN)
	}

	ctx := context.Background()
	table := "places_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	options = append(options, gazetteer.WithTableName(table))

	var wrapper Wrapper

	switch adapterType := strings.ToLower(os.Getenv(envAdapterType)); adapterType {
	case dbconfig.AdapterPGXPool, "":
		pool, err := dbconfig.OpenPGXPool(ctx, dsn)
		require.NoError(t, err, "error connecting to DB pool in test setup")

		g, err := gazetteer.NewGazetteerFromPGXPool(pool, options...)
		require.NoError(t, err, "error creating the gazetteer in test setup")

		wrapper = &PGXPoolWrapper{pool: pool, g: g, table: table}

	case dbconfig.AdapterSQLDB:
		db, err := dbconfig.OpenSQLDB(ctx, dsn)
		require.NoError(t, err, "error connecting to DB in test setup")

		g, err := gazetteer.NewGazetteerFromSQLDB(db, options...)
		require.NoError(t, err, "error creating the gazetteer in test setup")

		wrapper = &SQLDBWrapper{db: db, g: g, table: table}

	case dbconfig.AdapterSQLX:
		db, err := dbconfig.OpenSQLX(ctx, dsn)
		require.NoError(t, err, "error connecting to DB in test setup")

		g, err := gazetteer.NewGazetteerFromSQLX(db, options...)
		require.NoError(t, err, "error creating the gazetteer in test setup")

		wrapper = &SQLXWrapper{db: db, g: g, table: table}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterType))
	}

	require.NoError(t, wrapper.GetGazetteer().EnsureTable(ctx), "error creating the places table in test setup")

	return wrapper
}

// CleanUp drops the wrapper's places table and closes the connection.
func CleanUp(t testing.TB, wrapper Wrapper) {
	query := fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, wrapper.TableName())

	var err error

	switch w := wrapper.(type) {
	case *PGXPoolWrapper:
		_, err = w.pool.Exec(context.Background(), query)

	case *SQLDBWrapper:
		_, err = w.db.Exec(query)

	case *SQLXWrapper:
		_, err = w.db.Exec(query)

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", w))
	}

	require.NoError(t, err, "error dropping the places table")
	wrapper.Close()
}
