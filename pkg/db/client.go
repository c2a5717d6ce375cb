package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mygroup/mygroup-backend/pkg/config"
	"github.com/mygroup/mygroup-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Client owns the process-wide GORM handle.
type Client struct {
	conn *gorm.DB
}

// New opens the configured database, applies pool limits and pings it once.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.New("database DSN is required")
	}

	var dialector gorm.Dialector
	switch driver := normalizeDriver(cfg.Driver); driver {
	case config.DBDriverPostgres:
		dialector = postgres.New(postgres.Config{DSN: cfg.DSN, PreferSimpleProtocol: true})
	case config.DBDriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 queryLogger(logg, cfg.SlowQueryThreshold),
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", dialector.Name(), err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", dialector.Name(), err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "driver", dialector.Name()), "db.connected")
	}
	return &Client{conn: conn}, nil
}

func normalizeDriver(driver string) string {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		return config.DBDriverPostgres
	}
	return driver
}

// queryLogger reports slow statements and driver errors through the service
// logger. Record-not-found is a normal outcome and stays quiet.
func queryLogger(logg *logger.Logger, slow time.Duration) gormlogger.Interface {
	if logg == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(queryLogWriter{logg: logg}, gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
		Colorful:                  false,
	})
}

type queryLogWriter struct {
	logg *logger.Logger
}

func (w queryLogWriter) Printf(format string, args ...any) {
	w.logg.Warn(context.Background(), "db.query: "+fmt.Sprintf(format, args...))
}

// NewFromConn wraps an already open connection. Tests use it with SQLite.
func NewFromConn(conn *gorm.DB) *Client {
	return &Client{conn: conn}
}

// Dialect names the goose dialect of the open connection.
func (c *Client) Dialect() string {
	if c.conn != nil && c.conn.Dialector != nil && c.conn.Dialector.Name() == "sqlite" {
		return "sqlite3"
	}
	return "postgres"
}

// DB returns the GORM handle.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// Ping checks the pool can reach the database.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the pool.
func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx runs fn in a transaction. A returned error or a panic rolls back;
// the panic is re-raised after the rollback.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.conn.WithContext(ctx).Transaction(fn)
}
