package gazetteer

// Logger interface for SQL query logging and error reporting.
// A *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option defines a functional option for configuring a Gazetteer.
type Option func(*Gazetteer) error

// WithTableName sets the places table name.
func WithTableName(tableName string) Option {
	return func(g *Gazetteer) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		g.tableName = tableName

		return nil
	}
}

// WithMaxResults limits the number of forward geocoding matches.
func WithMaxResults(maxResults uint) Option {
	return func(g *Gazetteer) error {
		if maxResults == 0 {
			return ErrInvalidMaxResults
		}

		g.maxResults = maxResults

		return nil
	}
}

// WithLogger sets the logger for the Gazetteer.
//
// Debug level: SQL statements with execution timing
// Info level: match counts
// Warn level: cleanup failures
// Error level: failed statements.
func WithLogger(logger Logger) Option {
	return func(g *Gazetteer) error {
		g.logger = logger
		return nil
	}
}
