package database

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/rdb/v1/logger"
)

// FXModule is an fx module that provides the database client.
// It registers the Database constructor for dependency injection and sets
// up lifecycle hooks for connection monitoring and graceful shutdown.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    database.FXModule,
//	    fx.Provide(
//	        func() logger.Config { return logger.Config{Level: logger.Info} },
//	        func() database.Config {
//	            return database.PostgresConfig(database.Connection{
//	                Host:     "localhost",
//	                User:     "myuser",
//	                Password: "secret",
//	                Database: "mydb",
//	            })
//	        },
//	    ),
//	    fx.Invoke(func(db database.Client) {
//	        // Use db...
//	    }),
//	)
var FXModule = fx.Module("database",
	fx.Provide(
		NewDatabaseClientWithDI, // Returns *Database for internal lifecycle
		fx.Annotate(
			ProvideClient,      // Returns Client interface
			fx.As(new(Client)), // Expose as Client interface
		),
	),
	fx.Invoke(RegisterDatabaseLifecycle),
)

// ProvideClient wraps the concrete *Database and returns it as the Client
// interface. This enables applications to depend on the interface rather
// than the concrete type.
func ProvideClient(db *Database) Client {
	return db
}

// DatabaseParams groups the dependencies needed to create a Database via
// dependency injection. The embedded fx.In marker enables automatic
// injection of the struct fields from the dependency container.
type DatabaseParams struct {
	fx.In

	Config Config
	Logger *logger.Logger
}

// NewDatabaseClientWithDI creates a new Database using dependency
// injection. The Config and Logger dependencies are automatically provided
// via the DatabaseParams struct.
//
// This function delegates to NewDatabase, maintaining the same
// initialization logic while enabling seamless integration with fx.
func NewDatabaseClientWithDI(params DatabaseParams) (*Database, error) {
	return NewDatabase(params.Config, params.Logger)
}

// DatabaseLifecycleParams groups the dependencies needed for database
// lifecycle management.
type DatabaseLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Database  *Database
}

// RegisterDatabaseLifecycle registers lifecycle hooks for the database
// component. It sets up:
//  1. Connection monitoring on application start
//  2. The automatic reconnection loop on application start
//  3. Graceful shutdown of database connections on application stop
//
// The function uses a WaitGroup to ensure that both goroutines complete
// before the application terminates.
func RegisterDatabaseLifecycle(params DatabaseLifecycleParams) {
	wg := &sync.WaitGroup{}
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Database.MonitorConnection(ctx)
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Database.RetryConnection(ctx)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := params.Database.GracefulShutdown()
			wg.Wait()
			return err
		},
	})
}
