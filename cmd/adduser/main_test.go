package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imtiaz478/Sellora-full/internal/auth"
	"github.com/imtiaz478/Sellora-full/internal/storage/sqlite"
)

func TestRun_Success(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	dbPath := filepath.Join(t.TempDir(), "test_success.db")

	stdout := new(bytes.Buffer)
	args := []string{"-user", "seller", "-email", "seller@example.com", "-password", "secret-pass", "-db", "sqlite://" + dbPath}
	require.NoError(t, run(context.Background(), args, new(bytes.Buffer), stdout, new(bytes.Buffer)))
	assert.Contains(t, stdout.String(), "User seller created successfully")

	ctx := context.Background()
	store, err := sqlite.NewStore(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()
	user, err := store.FindByEmail(ctx, "seller@example.com")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "secret-pass"))
}

func TestRun_DuplicateUser(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	dbPath := filepath.Join(t.TempDir(), "test_duplicate.db")
	args := []string{"-user", "seller", "-email", "seller@example.com", "-password", "secret-pass", "-db", dbPath}

	require.NoError(t, run(context.Background(), args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)), "first run should succeed")

	err := run(context.Background(), args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err, "expected error on duplicate user")
	assert.Contains(t, err.Error(), "already exists")
}

func TestRun_MissingFlags(t *testing.T) {
	stdout := new(bytes.Buffer)
	err := run(context.Background(), []string{"-password", "secret-pass"}, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRun_InteractivePassword(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	dbPath := filepath.Join(t.TempDir(), "test_interactive.db")
	stdout := new(bytes.Buffer)
	stdin := bytes.NewBufferString("interactive_secret\n")

	args := []string{"-user", "seller", "-email", "seller@example.com", "-db", dbPath}
	require.NoError(t, run(context.Background(), args, stdin, stdout, new(bytes.Buffer)))
	assert.Contains(t, stdout.String(), "Password: ")
	assert.Contains(t, stdout.String(), "created successfully")
}

func TestRun_WeakPassword(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	dbPath := filepath.Join(t.TempDir(), "test_weak.db")
	args := []string{"-user", "seller", "-email", "seller@example.com", "-password", "short", "-db", dbPath}

	err := run(context.Background(), args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}
