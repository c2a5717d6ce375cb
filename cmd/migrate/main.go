package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mygroup/mygroup-backend/pkg/config"
	"github.com/mygroup/mygroup-backend/pkg/db"
	"github.com/mygroup/mygroup-backend/pkg/logger"
	"github.com/mygroup/mygroup-backend/pkg/migrate"
)

type options struct {
	cmd      string
	dir      string
	name     string
	version  string
	embedded bool
}

func main() {
	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "up | down | status | version | create | validate")
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "migrations root with one subdirectory per dialect (create, validate)")
	flag.StringVar(&opts.name, "name", "", "migration name for -cmd=create")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.BoolVar(&opts.embedded, "embedded", false, "validate the migrations compiled into the binary instead of -dir")
	flag.Parse()

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", opts.cmd, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			return errors.New("-name is required")
		}
		paths, err := migrate.CreateSQLMigration(opts.dir, opts.name)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println("created", p)
		}
		return nil
	case "validate":
		validate := func() error { return migrate.ValidateDir(opts.dir) }
		if opts.embedded {
			validate = migrate.ValidateEmbedded
		}
		if err := validate(); err != nil {
			return err
		}
		fmt.Println("migrations valid")
		return nil
	case "up", "down", "status", "version":
	default:
		return fmt.Errorf("unknown command %q", opts.cmd)
	}
	if opts.cmd == "version" && opts.version == "" {
		return errors.New("-version is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}

	dialect := dbClient.Dialect()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "cmd": opts.cmd, "dialect": dialect})
	logg.Info(ctx, "migrate.start")

	if opts.cmd == "version" {
		err = migrate.MigrateToVersion(ctx, sqlDB, dialect, opts.version)
	} else {
		err = migrate.Run(ctx, sqlDB, dialect, opts.cmd)
	}
	if err != nil {
		logg.Error(ctx, "migrate.failed", err)
		return err
	}
	logg.Info(ctx, "migrate.done")
	return nil
}
