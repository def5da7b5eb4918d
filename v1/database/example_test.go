package database_test

import (
	"testing"

	"github.com/Aleph-Alpha/rdb/v1/database"
	"github.com/Aleph-Alpha/rdb/v1/dialect"
)

// Example showing how to create a PostgreSQL config
func ExamplePostgresConfig() {
	cfg := database.PostgresConfig(database.Connection{
		Host:     "localhost",
		User:     "myuser",
		Password: "secret",
		Database: "mydb",
	})

	_ = cfg // Use the config with database.FXModule or NewDatabase
}

// Example showing configuration-driven backend selection
func ExampleConfig() {
	createConfig := func(backend string) database.Config {
		conn := database.Connection{
			Host:     "localhost",
			User:     "myuser",
			Password: "secret",
			Database: "mydb",
		}
		switch backend {
		case "postgresql":
			return database.PostgresConfig(conn)
		case "mysql":
			return database.MySQLConfig(conn)
		case "sqlite":
			return database.SQLiteConfig(dialect.MemoryDatabase, false)
		default:
			return database.Config{}
		}
	}

	cfg := createConfig("postgresql")
	_ = cfg // Pass to database.FXModule or NewDatabase
}

// Test that config helpers work correctly
func TestConfigHelpers(t *testing.T) {
	t.Run("PostgresConfig", func(t *testing.T) {
		cfg := database.PostgresConfig(database.Connection{
			Host: "localhost",
			Port: 5432,
		})

		if cfg.Connection.Dialect != "postgresql" {
			t.Errorf("expected dialect=postgresql, got %s", cfg.Connection.Dialect)
		}
		if cfg.Connection.Host != "localhost" {
			t.Errorf("expected host=localhost, got %s", cfg.Connection.Host)
		}
	})

	t.Run("MySQLConfig", func(t *testing.T) {
		cfg := database.MySQLConfig(database.Connection{Host: "localhost"})
		if cfg.Connection.Dialect != "mysql" {
			t.Errorf("expected dialect=mysql, got %s", cfg.Connection.Dialect)
		}
	})

	t.Run("SQLiteConfig", func(t *testing.T) {
		cfg := database.SQLiteConfig(dialect.MemoryDatabase, true)
		if cfg.Connection.Dialect != "sqlite" {
			t.Errorf("expected dialect=sqlite, got %s", cfg.Connection.Dialect)
		}
		if cfg.Connection.Database != dialect.MemoryDatabase {
			t.Errorf("expected in-memory database, got %s", cfg.Connection.Database)
		}
		if !cfg.Connection.Verbose {
			t.Error("expected verbose echoing to be enabled")
		}
	})
}

// Example showing a backend-agnostic repository built on the Client interface
type ProjectRepository struct {
	db    database.Client
	table database.Table
}

func NewProjectRepository(db database.Client) *ProjectRepository {
	return &ProjectRepository{
		db:    db,
		table: database.NewTable("project", "name", "annotation"),
	}
}

func ExampleClient() {
	// This would come from database.FXModule or NewDatabase
	var db database.Client

	repo := NewProjectRepository(db)
	_ = repo // Use in your application
}
