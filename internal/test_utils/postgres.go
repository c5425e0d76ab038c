package test_utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/ledger/internal/config"
	"github.com/klokku/ledger/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	dbName     = "ledger"
	dbUser     = "test_ledger"
	dbPassword = "test_ledger"
)

var (
	dbOnce sync.Once
	dbPool *pgxpool.Pool
	dbErr  error
)

func preparePostgresContainer(ctx context.Context) (*postgres.PostgresContainer, error) {
	pgContainer, err := postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return nil, err
	}
	return pgContainer, nil
}

func startDB() (*pgxpool.Pool, error) {
	ctx := context.Background()

	container, err := preparePostgresContainer(ctx)
	if err != nil {
		return nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, err
	}
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host: host,
		Port: port.Int(),
		User: dbUser,
		Pass: dbPassword,
		Name: dbName,
		// public keeps the schema available without an init script
		Schema: "public",
	}

	if err := withWorkingDir(projectRoot(), func() error { return database.Migrate(cfg) }); err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return database.Open(ctx, cfg)
}

// TestWithDB returns a pool connected to a migrated PostgreSQL container with all tables emptied.
// The container is started once per test binary; tests are skipped when Docker is not available.
func TestWithDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	dbOnce.Do(func() {
		dbPool, dbErr = startDB()
	})
	if dbErr != nil {
		t.Skipf("postgres not available: %v", dbErr)
	}

	_, err := dbPool.Exec(context.Background(), `TRUNCATE stats, day, contract, users RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}
	return dbPool
}

func withWorkingDir(dir string, fn func() error) error {
	if dir == "" {
		return fn()
	}
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := os.Chdir(dir); err != nil {
		return err
	}
	defer os.Chdir(wd)
	return fn()
}

// projectRoot looks for the directory holding go.mod, starting from the working directory.
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
