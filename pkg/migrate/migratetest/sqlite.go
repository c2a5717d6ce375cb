// Package migratetest opens throwaway SQLite databases with the embedded
// migrations applied, for repository and service tests.
package migratetest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/mygroup/mygroup-backend/pkg/db"
	"github.com/mygroup/mygroup-backend/pkg/migrate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenSQLite returns a migrated in-memory database private to the calling test.
func OpenSQLite(t *testing.T) *db.Client {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	client := db.NewFromConn(conn)
	if err := migrate.Up(context.Background(), sqlDB, client.Dialect()); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return client
}
