package database

import (
	"context"
	"errors"
	"strings"

	"github.com/imtiaz478/Sellora-full/internal/storage"
	"github.com/imtiaz478/Sellora-full/internal/storage/postgres"
	"github.com/imtiaz478/Sellora-full/internal/storage/sqlite"
)

// Driver names the backend selected for a database URL.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// Resolve maps a DATABASE_URL to a driver and its driver-specific DSN.
// postgres:// and postgresql:// URLs go to pgx; sqlite://<path> or a bare path go to SQLite.
func Resolve(databaseURL string) (Driver, string, error) {
	url := strings.TrimSpace(databaseURL)
	switch {
	case url == "":
		return "", "", errors.New("database url is empty")
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		if path == "" {
			return "", "", errors.New("sqlite url has no path")
		}
		return DriverSQLite, path, nil
	case strings.Contains(url, "://"):
		return "", "", errors.New("unsupported database url scheme")
	default:
		return DriverSQLite, url, nil
	}
}

// Open connects to the backend named by databaseURL and runs its migrations.
func Open(ctx context.Context, databaseURL string) (storage.Store, error) {
	driver, dsn, err := Resolve(databaseURL)
	if err != nil {
		return nil, err
	}
	if driver == DriverPostgres {
		return postgres.NewStore(ctx, dsn)
	}
	return sqlite.NewStore(ctx, dsn)
}
