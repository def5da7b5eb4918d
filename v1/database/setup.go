package database

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	oracle "github.com/godoes/gorm-oracle"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"

	"github.com/Aleph-Alpha/rdb/v1/dialect"
	"github.com/Aleph-Alpha/rdb/v1/observability"
)

// Database is a dialect-aware wrapper around gorm.DB that provides
// schema-validated transactional CRUD, connection monitoring and automatic
// reconnection.
//
// Concurrency: the active *gorm.DB pointer is stored in an atomic pointer
// and can be swapped during reconnection without blocking readers.
type Database struct {
	cfg      Config
	spec     dialect.Spec
	log      Logger
	observer observability.Observer

	client          atomic.Pointer[gorm.DB]
	shutdownSignal  chan struct{}
	retryChanSignal chan error

	closeRetryChanOnce sync.Once
	closeShutdownOnce  sync.Once
}

// compile-time interface check
var _ Client = (*Database)(nil)

// NewDatabase creates a new Database instance for the configured dialect.
// It resolves the dialect, validates the driver selection, establishes the
// initial connection and sets up the internal state for connection
// monitoring and recovery.
//
// Parameters:
//   - cfg: Connection and pool configuration
//   - log: Logger for connection lifecycle events
//
// Returns *Database concrete type (following Go best practice: "accept
// interfaces, return structs").
//
// Example:
//
//	db, err := database.NewDatabase(database.PostgresConfig(database.Connection{
//	    Host:     "localhost",
//	    User:     "myuser",
//	    Password: "secret",
//	    Database: "mydb",
//	}), log)
func NewDatabase(cfg Config, log Logger) (*Database, error) {
	spec, err := dialect.Lookup(cfg.Connection.Dialect)
	if err != nil {
		return nil, err
	}
	if err := spec.ValidateDriver(cfg.Connection.Driver); err != nil {
		return nil, err
	}

	conn, err := connect(cfg, spec, log)
	if err != nil {
		return nil, fmt.Errorf("error in connecting to %s: %w", spec.Name, err)
	}

	d := &Database{
		cfg:             cfg,
		spec:            spec,
		log:             log,
		shutdownSignal:  make(chan struct{}),
		retryChanSignal: make(chan error, 1),
	}
	d.client.Store(conn)
	return d, nil
}

// newDatabaseWithConn wires a Database around an already opened gorm.DB.
// Used by tests that drive the client over a mocked connection.
func newDatabaseWithConn(cfg Config, spec dialect.Spec, log Logger, conn *gorm.DB) *Database {
	d := &Database{
		cfg:             cfg,
		spec:            spec,
		log:             log,
		shutdownSignal:  make(chan struct{}),
		retryChanSignal: make(chan error, 1),
	}
	d.client.Store(conn)
	return d
}

// WithObserver attaches an observer that receives every completed operation.
// It returns the same instance for chaining.
func (d *Database) WithObserver(observer observability.Observer) *Database {
	d.observer = observer
	return d
}

// DB returns the currently active gorm.DB. The pointer may be swapped by
// the reconnection loop, so callers should not cache it across operations.
func (d *Database) DB() *gorm.DB {
	return d.client.Load()
}

// Descriptor returns the canonical connection descriptor for the configured
// target, with the password redacted. Useful for logging and diagnostics.
func (d *Database) Descriptor() string {
	params := d.cfg.Connection.params()
	if params.Password != "" {
		params.Password = "xxxxx"
	}
	return d.spec.Descriptor(params)
}

// openDialector selects the GORM driver for the resolved dialect.
func openDialector(spec dialect.Spec, cfg Config) (gorm.Dialector, error) {
	dsn := spec.DSN(cfg.Connection.params())

	switch spec.Name {
	case dialect.Postgres:
		return postgres.Open(dsn), nil
	case dialect.MySQL:
		return mysql.Open(dsn), nil
	case dialect.Oracle:
		return oracle.Open(dsn), nil
	case dialect.MSSQL:
		return sqlserver.Open(dsn), nil
	case dialect.SQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, dialect.ErrUnsupportedDialect
	}
}

// connect establishes a connection to the configured backend. It builds the
// DSN, opens the connection with GORM, and configures the connection pool.
// Returns the initialized GORM DB instance or an error if the connection
// fails.
func connect(cfg Config, spec dialect.Spec, log Logger) (*gorm.DB, error) {
	dialector, err := openDialector(spec, cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(log, cfg.Connection.Verbose),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", spec.Name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s database instance: %w", spec.Name, err)
	}

	// Set connection pool parameters.
	// If config fields are not set (zero), apply package defaults.
	maxOpen := cfg.ConnectionDetails.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 50
	}
	maxIdle := cfg.ConnectionDetails.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 25
	}
	maxLifetime := cfg.ConnectionDetails.ConnMaxLifetime
	if maxLifetime == 0 {
		maxLifetime = 1 * time.Minute
	}

	// An in-memory sqlite database lives and dies with its connection, so
	// the pool must be pinned to a single everlasting one.
	if spec.Name == dialect.SQLite && cfg.Connection.Database == dialect.MemoryDatabase {
		maxOpen = 1
		maxIdle = 1
		maxLifetime = 0
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(maxLifetime)

	log.Info("successfully connected to database", nil, map[string]interface{}{
		"dialect": string(spec.Name),
	})

	return db, nil
}

// RetryConnection continuously attempts to reconnect to the backend when
// notified of a connection failure. It operates as a goroutine that waits
// for signals on retryChanSignal before attempting reconnection. The
// function respects context cancellation and shutdown signals, ensuring
// graceful termination when requested.
//
// It implements two nested loops:
// - The outer loop waits for retry signals
// - The inner loop attempts reconnection until successful
func (d *Database) RetryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-d.shutdownSignal:
			d.log.Info("stopping RetryConnection loop due to shutdown signal", nil)
			return
		case <-ctx.Done():
			return
		case <-d.retryChanSignal:
		innerLoop:
			for {
				select {
				case <-d.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					newConn, err := connect(d.cfg, d.spec, d.log)
					if err != nil {
						d.log.Error("database reconnection failed", err)
						time.Sleep(time.Second)
						continue innerLoop
					}
					d.client.Store(newConn)
					d.log.Info("successfully reconnected to database", nil)
					continue outerLoop
				}
			}
		}
	}
}

// MonitorConnection periodically checks the health of the database
// connection and triggers reconnection attempts when necessary. It runs as
// a goroutine that performs health checks at regular intervals (10 seconds)
// and signals the RetryConnection goroutine when a failure is detected.
//
// The function respects context cancellation and shutdown signals, ensuring
// proper resource cleanup and graceful termination when requested.
func (d *Database) MonitorConnection(ctx context.Context) {
	defer d.closeRetryChanOnce.Do(func() {
		close(d.retryChanSignal)
	})

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-d.shutdownSignal:
			d.log.Info("stopping MonitorConnection loop due to shutdown signal", nil)
			return
		case <-ticker.C:
			err := d.healthCheck()
			if err != nil {
				select {
				case d.retryChanSignal <- err:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// healthCheck performs a health check on the database connection.
// It snapshots the current *gorm.DB, then attempts to ping the database
// with a timeout of 5 seconds to verify connectivity.
//
// It returns nil if the database is healthy, or an error with details about
// the issue.
func (d *Database) healthCheck() error {
	dbConn := d.DB()
	if dbConn == nil {
		return fmt.Errorf("database client is not initialized")
	}

	sqlDB, err := dbConn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}

	return nil
}

// GracefulShutdown stops the monitoring goroutines and closes the
// underlying connection pool.
func (d *Database) GracefulShutdown() error {
	d.closeShutdownOnce.Do(func() {
		close(d.shutdownSignal)
	})

	d.closeRetryChanOnce.Do(func() {
		close(d.retryChanSignal)
	})

	dbConn := d.DB()
	if dbConn == nil {
		return nil
	}
	sqlDB, err := dbConn.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}
