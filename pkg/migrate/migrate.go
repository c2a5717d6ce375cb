package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"strconv"

	"github.com/pressly/goose/v3"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// DefaultDir is the on-disk migrations root; each dialect has its own subdirectory.
const DefaultDir = "pkg/migrate/migrations"

// Dialects lists the dialects every migration must be written for.
var Dialects = []string{DialectPostgres, DialectSQLite}

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedded embed.FS

// EmbeddedDir returns the directory inside the embedded filesystem that holds
// the migrations for dialect.
func EmbeddedDir(dialect string) (string, error) {
	sub, err := dialectSubdir(dialect)
	if err != nil {
		return "", err
	}
	return path.Join("migrations", sub), nil
}

func dialectSubdir(dialect string) (string, error) {
	switch dialect {
	case DialectPostgres:
		return "postgres", nil
	case DialectSQLite:
		return "sqlite", nil
	}
	return "", fmt.Errorf("unsupported migration dialect %q", dialect)
}

func prepare(dialect string) (string, error) {
	dir, err := EmbeddedDir(dialect)
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(embedded)
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	return dir, nil
}

// Run executes a goose command against the embedded migrations for dialect.
func Run(ctx context.Context, db *sql.DB, dialect string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	dir, err := prepare(dialect)
	if err != nil {
		return err
	}

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	dir, err := prepare(dialect)
	if err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, dialect string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}

	dir, err := prepare(dialect)
	if err != nil {
		return err
	}

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil
	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil
	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}
