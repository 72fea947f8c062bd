//go:build integration

package mariadb

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/config"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/database"
)

func setupTestContainer(t *testing.T) (*Pool, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mariadb:11",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MARIADB_ROOT_PASSWORD": "test",
			"MARIADB_DATABASE":      "cfis",
		},
		WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Docker not available or container failed to start, skipping integration test: %v", err)
		return nil, func() {}
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.DatabaseConfig{
		URL:          fmt.Sprintf("root:test@tcp(%s:%s)/cfis", host, port.Port()),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}

	// the port opens before the server accepts logins
	var pool *Pool
	for range 30 {
		pool, err = NewPool(cfg)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("Failed to create pool: %v", err)
	}

	if err := pool.Migrate(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		pool.Close()
		container.Terminate(ctx)
	}

	return pool, cleanup
}

func TestRecordRepository(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	repo := NewRecordRepository(pool)

	t.Run("CreateAndLookup", func(t *testing.T) {
		id, err := repo.Create(ctx, &database.Record{
			Name:        "Kunal",
			MotherName:  "Asha",
			BloodGroup:  "O+",
			Nationality: "Indian",
			Crimes:      "fraud, forgery",
		})
		if err != nil {
			t.Fatalf("Failed to create record: %v", err)
		}
		if id == 0 {
			t.Error("Expected non-zero id")
		}

		got, err := repo.Lookup(ctx, "KUNAL")
		if err != nil {
			t.Fatalf("Failed to lookup record: %v", err)
		}
		if got.Crimes != "fraud, forgery" {
			t.Errorf("Expected Crimes 'fraud, forgery', got '%s'", got.Crimes)
		}
		if got.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := repo.Create(ctx, &database.Record{Name: "kunal"})
		if !errors.Is(err, database.ErrDuplicateRecord) {
			t.Errorf("Expected ErrDuplicateRecord, got %v", err)
		}
	})

	t.Run("Count", func(t *testing.T) {
		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("Failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1, got %d", count)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := repo.Delete(ctx, "kunal"); err != nil {
			t.Fatalf("Failed to delete: %v", err)
		}
		if _, err := repo.Lookup(ctx, "kunal"); !errors.Is(err, database.ErrRecordNotFound) {
			t.Errorf("Expected ErrRecordNotFound, got %v", err)
		}
	})
}

func TestMigrations(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	if err := pool.Migrate(ctx); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}

	applied, err := pool.MigrationsApplied(ctx)
	if err != nil {
		t.Fatalf("Failed to get applied migrations: %v", err)
	}
	if len(applied) != 1 || applied[0] != "001_criminal_records.sql" {
		t.Errorf("Unexpected applied migrations: %v", applied)
	}
}
