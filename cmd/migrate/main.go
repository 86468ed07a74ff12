package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/debtbook/backend/internal/infrastructure/config"
	"github.com/debtbook/backend/internal/infrastructure/logger"
	"github.com/debtbook/backend/internal/infrastructure/migration"
	"github.com/debtbook/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// create only touches the filesystem
	if command == "create" {
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		dir := migrationsPath
		if dir == "" {
			dir = defaultMigrationsDir
		}
		mf, err := migration.CreateMigration(dir, args[1], description, time.Now())
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created successfully",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatal("Migrations target PostgreSQL; SQLite schemas are created with database.auto_migrate",
			zap.String("driver", cfg.Database.Driver))
	}

	var m *migration.Migrator
	if migrationsPath != "" {
		m, err = migration.NewFromDir(cfg.Database.DSN(), migrationsPath, log)
	} else {
		var db *sql.DB
		db, err = sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database", zap.Error(err))
		}
		m, err = migration.New(db, migrations.FS, log)
	}
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	log.Info("Migration CLI started", zap.String("command", command))

	switch command {
	case "up":
		err = m.Up()

	case "down":
		err = m.Down()

	case "step":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate step <n>")
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		err = m.Steps(n)

	case "goto":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate goto <version>")
		}
		version, convErr := strconv.ParseUint(args[1], 10, 64)
		if convErr != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		err = m.GoTo(uint(version))

	case "version":
		version, dirty, verErr := m.Version()
		if verErr != nil {
			log.Fatal("Failed to get version", zap.Error(verErr))
		}
		if version == 0 {
			log.Info("No migrations applied")
			return
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))

	case "pending":
		version, _, verErr := m.Version()
		if verErr != nil {
			log.Fatal("Failed to get version", zap.Error(verErr))
		}
		pending, pendErr := migration.Pending(migrations.FS, version)
		if pendErr != nil {
			log.Fatal("Failed to list migrations", zap.Error(pendErr))
		}
		log.Info("Pending migrations", zap.Int("count", len(pending)))
		for _, v := range pending {
			fmt.Println("  -", v)
		}

	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		err = m.Force(version)

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatal("Migration failed", zap.String("command", command), zap.Error(err))
	}
}

func printUsage() {
	fmt.Println(`Debtbook database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  pending               List embedded migrations not yet applied
  force <version>       Force set migration version (use with caution)
  create <name> [desc]  Create a new migration file pair

Flags:
  -path string          Migrations directory (default: embedded set; ./migrations for create)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  DEBTBOOK_DATABASE_HOST, DEBTBOOK_DATABASE_PORT, DEBTBOOK_DATABASE_USER,
  DEBTBOOK_DATABASE_PASSWORD, DEBTBOOK_DATABASE_DBNAME, DEBTBOOK_DATABASE_SSLMODE

Examples:
  migrate up
  migrate step -1
  migrate create add_client_notes "Free text notes on clients"`)
}
