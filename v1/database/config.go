package database

import (
	"time"

	"github.com/Aleph-Alpha/rdb/v1/dialect"
)

// Connection identifies the database to connect to.
// Dialect is required; Driver is optional and must belong to the dialect's
// allowed driver set when set. For sqlite only Database (and Verbose) are
// consulted, the network fields are ignored.
type Connection struct {
	// Dialect is one of the supported backend families
	// ("postgresql", "mysql", "oracle", "mssql", "sqlite").
	Dialect string

	// Driver optionally pins a specific client library for the dialect.
	// Empty means the dialect's default driver.
	Driver string

	// Database is the database name, or for sqlite a file path
	// (":memory:" for a non-persistent instance).
	Database string

	User     string
	Password string
	Host     string

	// Port of the backend. Zero means the dialect's default port.
	Port int

	// SSLMode is consulted for postgresql only. Empty means "disable".
	SSLMode string

	// Verbose enables SQL statement echoing at debug level.
	Verbose bool
}

// ConnectionDetails holds connection pool tuning parameters.
// Zero values fall back to package defaults (50 open, 25 idle, 1 minute).
type ConnectionDetails struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Config contains configuration for database client creation.
// Use one of the helper functions (PostgresConfig, MySQLConfig, OracleConfig,
// MSSQLConfig, SQLiteConfig) to create it, or fill it in directly.
type Config struct {
	Connection        Connection
	ConnectionDetails ConnectionDetails
}

// params converts the connection settings into dialect parameters.
func (c Connection) params() dialect.Params {
	return dialect.Params{
		Database: c.Database,
		User:     c.User,
		Password: c.Password,
		Host:     c.Host,
		Port:     c.Port,
		Driver:   c.Driver,
		SSLMode:  c.SSLMode,
	}
}

// PostgresConfig creates a Config for PostgreSQL.
// Port zero falls back to 5432, SSLMode empty to "disable".
//
// Example:
//
//	cfg := database.PostgresConfig(database.Connection{
//	    Host:     "localhost",
//	    User:     "myuser",
//	    Password: "secret",
//	    Database: "mydb",
//	})
func PostgresConfig(conn Connection) Config {
	conn.Dialect = string(dialect.Postgres)
	return Config{Connection: conn}
}

// MySQLConfig creates a Config for MySQL/MariaDB. Port zero falls back to 3306.
func MySQLConfig(conn Connection) Config {
	conn.Dialect = string(dialect.MySQL)
	return Config{Connection: conn}
}

// OracleConfig creates a Config for Oracle. Port zero falls back to 1521;
// Database names the service.
func OracleConfig(conn Connection) Config {
	conn.Dialect = string(dialect.Oracle)
	return Config{Connection: conn}
}

// MSSQLConfig creates a Config for Microsoft SQL Server.
// Port zero falls back to 1433.
func MSSQLConfig(conn Connection) Config {
	conn.Dialect = string(dialect.MSSQL)
	return Config{Connection: conn}
}

// SQLiteConfig creates a Config for the embedded sqlite backend.
// database is a file path, or dialect.MemoryDatabase for a non-persistent
// instance. No network or credential fields apply.
func SQLiteConfig(database string, verbose bool) Config {
	return Config{Connection: Connection{
		Dialect:  string(dialect.SQLite),
		Database: database,
		Verbose:  verbose,
	}}
}
