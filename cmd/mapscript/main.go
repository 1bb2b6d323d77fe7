// Command mapscript replays a YAML scenario through the map facade against the in-memory
// provider and prints a JSON report with the recorded provider transcript.
//
// Configuration is read from an optional config file (-config), MAPSCRIPT_* environment
// variables and flags. Setting a gazetteer DSN routes geocoding through PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/deferred-maps-go/internal/dbconfig"
	"github.com/AntonStoeckl/deferred-maps-go/mapfacade"
	"github.com/AntonStoeckl/deferred-maps-go/mapfacade/gazetteer"
)

var reportJSON = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "mapscript:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		return err
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	scenario, err := readScenario(cfg.Scenario)
	if err != nil {
		return err
	}

	var geocoder mapfacade.Geocoder
	if cfg.Gazetteer.Enabled() {
		g, closeDB, openErr := openGazetteer(ctx, cfg.Gazetteer, logger)
		if openErr != nil {
			return openErr
		}
		defer closeDB()

		if cfg.Gazetteer.Seed {
			if seedErr := seedGazetteer(ctx, g, scenario.Places); seedErr != nil {
				return seedErr
			}
			logger.InfoContext(ctx, "mapscript: gazetteer seeded", "places", len(scenario.Places))
		}

		geocoder = g
	}

	runner, err := NewRunner(scenario, geocoder, logger)
	if err != nil {
		return err
	}

	report, runErr := runner.Run(ctx)

	if writeErr := writeReport(cfg.Output, stdout, report); writeErr != nil {
		return writeErr
	}

	return runErr
}

func parseConfig(args []string, stderr io.Writer) (Config, error) {
	flags := flag.NewFlagSet("mapscript", flag.ContinueOnError)
	flags.SetOutput(stderr)

	configFile := flags.String("config", "", "Optional config file (yaml, json or toml)")
	scenario := flags.String("scenario", "", "Scenario file, - for stdin")
	output := flags.String("output", "", "Report file, - for stdout")
	logLevel := flags.String("log-level", "", "Log level: debug, info, warn or error")
	dsn := flags.String("gazetteer-dsn", "", "PostgreSQL DSN of the places database")
	adapter := flags.String("gazetteer-adapter", "", "Database driver: pgxpool, sqldb or sqlx")
	seed := flags.Bool("gazetteer-seed", false, "Store the scenario places in the gazetteer before the run")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	overrides := make(map[string]any)
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scenario":
			overrides["scenario"] = *scenario
		case "output":
			overrides["output"] = *output
		case "log-level":
			overrides["log_level"] = *logLevel
		case "gazetteer-dsn":
			overrides["gazetteer.dsn"] = *dsn
		case "gazetteer-adapter":
			overrides["gazetteer.adapter"] = *adapter
		case "gazetteer-seed":
			overrides["gazetteer.seed"] = *seed
		}
	})

	if flags.NArg() > 0 && overrides["scenario"] == nil {
		overrides["scenario"] = flags.Arg(0)
	}

	return LoadConfig(*configFile, overrides)
}

func readScenario(path string) (Scenario, error) {
	if path == "" || path == "-" {
		return LoadScenario(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("open scenario: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadScenario(f)
}

func openGazetteer(
	ctx context.Context,
	cfg GazetteerConfig,
	logger *slog.Logger,
) (*gazetteer.Gazetteer, func(), error) {
	options := []gazetteer.Option{gazetteer.WithLogger(logger)}
	if cfg.Table != "" {
		options = append(options, gazetteer.WithTableName(cfg.Table))
	}
	if cfg.MaxResults > 0 {
		options = append(options, gazetteer.WithMaxResults(cfg.MaxResults))
	}

	return dbconfig.OpenGazetteer(ctx, cfg.Adapter, cfg.DSN, options...)
}

func seedGazetteer(ctx context.Context, g *gazetteer.Gazetteer, places []Place) error {
	if err := g.EnsureTable(ctx); err != nil {
		return err
	}

	results := make([]mapfacade.GeocodeResult, 0, len(places))
	for _, place := range places {
		results = append(results, place.toResult())
	}

	return g.Store(ctx, results...)
}

func writeReport(path string, stdout io.Writer, report Report) error {
	raw, err := reportJSON.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	raw = append(raw, '\n')

	if path == "" || path == "-" {
		_, err = stdout.Write(raw)
		return err
	}

	return os.WriteFile(path, raw, 0o644)
}
