// Package dbconfig opens PostgreSQL connections for the gazetteer.
//
// It contains factory functions for the three supported drivers (pgx.Pool, sql.DB, sqlx.DB)
// with pre-configured pool settings, and a helper that builds a gazetteer.Gazetteer over
// the driver selected by name. The CLI and the integration test wrapper both use it.
package dbconfig
