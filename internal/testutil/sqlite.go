// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Skotchmaster/quickkart/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewSQLite opens a migrated sqlite database in the test's temp dir.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "quickkart.db") + "?_pragma=busy_timeout(5000)"
	gdb, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}
