// Package adapters lets the gazetteer run over pgxpool.Pool, sql.DB or sqlx.DB.
//
// All adapters provide the same behavior through the DBAdapter interface, so the
// gazetteer builds its SQL once and executes it over whichever connection type the
// caller owns.
package adapters
