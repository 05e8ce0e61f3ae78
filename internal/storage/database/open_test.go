package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imtiaz478/Sellora-full/internal/models"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		url    string
		driver Driver
		dsn    string
	}{
		{"postgres://u:p@localhost:5432/sellora", DriverPostgres, "postgres://u:p@localhost:5432/sellora"},
		{"postgresql://localhost/sellora?sslmode=disable", DriverPostgres, "postgresql://localhost/sellora?sslmode=disable"},
		{"sqlite://sellora.db", DriverSQLite, "sellora.db"},
		{"sqlite:///var/lib/sellora.db", DriverSQLite, "/var/lib/sellora.db"},
		{" data/app.db ", DriverSQLite, "data/app.db"},
		{":memory:", DriverSQLite, ":memory:"},
	}
	for _, tc := range cases {
		driver, dsn, err := Resolve(tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.driver, driver, tc.url)
		assert.Equal(t, tc.dsn, dsn, tc.url)
	}

	for _, bad := range []string{"", "   ", "sqlite://", "mysql://localhost/db"} {
		_, _, err := Resolve(bad)
		assert.Error(t, err, bad)
	}
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	defer store.Close()

	user, err := store.CreateUser(ctx, models.User{Username: "u", Email: "u@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	items, err := store.ListTransactions(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
