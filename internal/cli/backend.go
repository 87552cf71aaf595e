package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pkordes/numberfinder/backend/internal/config"
	"github.com/pkordes/numberfinder/backend/internal/repo"
	"github.com/pkordes/numberfinder/backend/internal/supabase"
	"github.com/pkordes/numberfinder/backend/migrations"
)

// Backend is an opened contacts table plus whatever must be closed with it.
type Backend struct {
	Contacts repo.ContactRepo
	Driver   config.Driver

	closers []func() error
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	b.closers = nil
	return errors.Join(errs...)
}

// OpenBackend connects to the table selected by cfg.Driver and verifies it
// is reachable. The SQLite backend is migrated on open so a fresh file works
// straight away; Postgres schemas are managed with the migrate command.
func OpenBackend(ctx context.Context, cfg config.Config, log *slog.Logger) (*Backend, error) {
	var b *Backend
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := newPgPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		b = &Backend{
			Contacts: repo.NewContactRepo(pool),
			closers:  []func() error{func() error { pool.Close(); return nil }},
		}

	case config.DriverSQLite:
		db, err := repo.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("cli.OpenBackend: %w", err)
		}
		if _, err := migrateSQL(ctx, goose.DialectSQLite3, db, log); err != nil {
			db.Close()
			return nil, err
		}
		b = &Backend{Contacts: repo.NewSQLiteContactRepo(db), closers: []func() error{db.Close}}

	case config.DriverSupabase:
		if cfg.SupabaseAnonKey == "" {
			sm, err := config.NewSecretsClient(ctx, cfg.AWSRegion)
			if err != nil {
				return nil, fmt.Errorf("cli.OpenBackend: %w", err)
			}
			if err := config.ResolveTableKey(ctx, &cfg, sm); err != nil {
				return nil, fmt.Errorf("cli.OpenBackend: %w", err)
			}
		}
		client, err := supabase.NewClient(supabase.Config{
			URL:    cfg.SupabaseURL,
			APIKey: cfg.SupabaseAnonKey,
			Table:  cfg.SupabaseTable,
		})
		if err != nil {
			return nil, fmt.Errorf("cli.OpenBackend: %w", err)
		}
		b = &Backend{Contacts: client}

	default:
		return nil, fmt.Errorf("cli.OpenBackend: unknown driver %q", cfg.Driver)
	}

	b.Driver = cfg.Driver
	b.Contacts = repo.WithTimeout(b.Contacts, cfg.TableTimeout)
	log.Info("contacts backend ready", "driver", cfg.Driver, "table_timeout", cfg.TableTimeout)
	return b, nil
}

// newPgPool opens a pgx pool and verifies the database is reachable.
// pgxpool does not open connections until the first query, hence the Ping.
func newPgPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("cli.newPgPool: parse DATABASE_URL: %w", err)
	}
	poolCfg.MaxConns = 20
	poolCfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("cli.newPgPool: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cli.newPgPool: ping: %w", err)
	}
	return pool, nil
}

// openMigrationDB opens the database/sql handle goose works on.
func openMigrationDB(cfg config.Config) (*sql.DB, goose.Dialect, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("cli.openMigrationDB: %w", err)
		}
		return db, goose.DialectPostgres, nil
	case config.DriverSQLite:
		db, err := repo.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, "", fmt.Errorf("cli.openMigrationDB: %w", err)
		}
		return db, goose.DialectSQLite3, nil
	default:
		return nil, "", fmt.Errorf("cli.openMigrationDB: driver %q has no managed schema", cfg.Driver)
	}
}

func newMigrationProvider(dialect goose.Dialect, db *sql.DB) (*goose.Provider, error) {
	fsys, err := migrations.ForDialect(dialect)
	if err != nil {
		return nil, fmt.Errorf("cli.newMigrationProvider: %w", err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("cli.newMigrationProvider: %w", err)
	}
	return provider, nil
}

// migrateSQL applies every pending migration and returns what ran.
func migrateSQL(ctx context.Context, dialect goose.Dialect, db *sql.DB, log *slog.Logger) ([]*goose.MigrationResult, error) {
	provider, err := newMigrationProvider(dialect, db)
	if err != nil {
		return nil, err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("cli.migrateSQL: %w", err)
	}
	for _, r := range results {
		log.Info("migration applied", "version", r.Source.Version, "file", r.Source.Path, "duration", r.Duration)
	}
	return results, nil
}

// newLogger builds the JSON logger every command uses. Unknown levels fall
// back to info.
func newLogger(level string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// commandLogger logs to stderr for the one-shot commands: warnings only,
// unless --verbose asks for everything.
func commandLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	if opts.Verbose {
		return newLogger("debug", w)
	}
	return newLogger("warn", w)
}

// loadConfig wraps config.Load so a bad environment exits with ExitCommandError.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "configuration error", err)
	}
	return cfg, nil
}
