package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"pirouette/internal/config"
	"pirouette/internal/log"
)

func main() {
	migrationsPath := flag.String("path", "./migrations", "migrations directory")
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := log.New(cfg.Environment)

	db, err := sql.Open("pgx", cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database failed")
	}

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		logger.Fatal().Err(err).Msg("migration driver init failed")
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+*migrationsPath, "postgres", driver)
	if err != nil {
		logger.Fatal().Err(err).Msg("migration init failed")
	}
	defer m.Close()

	switch command := args[0]; command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal().Err(err).Msg("up failed")
		}
		logger.Info().Msg("migrations applied")

	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				logger.Fatal().Str("arg", args[1]).Msg("down: invalid steps argument")
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal().Err(err).Msg("down failed")
		}
		logger.Info().Int("steps", steps).Msg("migrations rolled back")

	case "version":
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			logger.Fatal().Err(err).Msg("version failed")
		}
		fmt.Printf("version: %d  dirty: %v\n", v, dirty)

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [-path DIR] <command> [args]

Commands:
  up           Apply all pending migrations
  down [N]     Rollback N migrations (default: 1)
  version      Print current migration version

The database DSN comes from the same configuration as the server
(PIROUETTE_POSTGRES_DSN or config.yaml).`)
}
