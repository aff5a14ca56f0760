// Package dbtest opens throwaway in-memory databases for package tests.
package dbtest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cafe-terminal/internal/data"
	"cafe-terminal/internal/db"
	"cafe-terminal/internal/executor"
)

var nameReplacer = strings.NewReplacer("/", "_", " ", "_", "'", "_", "#", "_")

// Open returns a migrated and seeded sqlite database private to t.
func Open(t *testing.T) (*gorm.DB, *executor.Gorm) {
	t.Helper()

	gdb, err := db.Open(db.Config{
		Driver:   db.DriverSQLite,
		Database: "file:" + nameReplacer.Replace(t.Name()),
		Params:   "mode=memory&cache=shared",
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	require.NoError(t, data.EnsureSchema(gdb))
	require.NoError(t, data.Seed(context.Background(), gdb, data.DefaultSeed()))
	return gdb, executor.New(gdb)
}

// CountRows counts rows of table matching the optional where clause.
func CountRows(t *testing.T, gdb *gorm.DB, table, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := gdb.Table(table)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
