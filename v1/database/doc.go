// Package database provides schema-validated, transactional CRUD operations
// over dynamic tables for five SQL backends: PostgreSQL, MySQL/MariaDB,
// Oracle, Microsoft SQL Server and embedded sqlite.
//
// Unlike an ORM, this package does not map rows onto application structs.
// Rows are plain column-name-to-value maps (Record), tables are described
// by externally supplied metadata (Table), and every operation targets a
// table by name. This suits administrative and integration workloads where
// schemas are data, not compile-time types.
//
// # Session protocol
//
// Every CRUD entry point is blocking and safe to invoke concurrently. Each
// call borrows its own connection from the shared pool and runs inside
// exactly one transaction: commit on success, rollback on failure, with the
// session released on every exit path. Cancellation and deadlines propagate
// through the supplied context to the driver.
//
// Referenced columns are validated client-side against the Table descriptor
// before any SQL is issued; an unknown column fails with
// *UnknownColumnError naming the lexicographically first offender, and no
// round trip takes place.
//
// # Basic usage
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info})
//
//	db, err := database.NewDatabase(database.PostgresConfig(database.Connection{
//	    Host:     "localhost",
//	    User:     "myuser",
//	    Password: "secret",
//	    Database: "mydb",
//	}), log)
//	if err != nil {
//	    log.Fatal("database setup failed", err)
//	}
//	defer db.GracefulShutdown()
//
//	projects := database.NewTable("project", "name", "annotation")
//
//	err = db.Create(ctx, projects, database.Record{"name": "P1", "annotation": "A1"})
//
//	records, err := db.Retrieve(ctx, projects, database.Query{
//	    Filters:    database.Filters{"name": "P1"},
//	    Conditions: []database.Condition{database.OrderBy("annotation", false)},
//	}, database.FetchAll)
//
// # Update locking
//
// Update acquires an exclusive table lock before mutating rows, so two
// concurrent updates targeting overlapping rows serialize instead of
// producing lost writes. Table-level locking is the only primitive portable
// across all five backends, and its isolation strength differs:
//
//   - PostgreSQL, Oracle: LOCK TABLE ... IN EXCLUSIVE MODE, held until the
//     transaction commits or rolls back.
//   - MySQL/MariaDB: LOCK TABLES ... WRITE. The lock belongs to the session,
//     not the transaction, and acquiring it implicitly commits any open
//     transaction; it is released with UNLOCK TABLES before the connection
//     returns to the pool. Statements between lock and unlock are therefore
//     not atomic with prior statements of the same session.
//   - SQL Server: a throwaway SELECT ... WITH (TABLOCKX) that takes an
//     exclusive table lock as a side effect, held until transaction end.
//   - sqlite: no lock statement; the single-writer engine serializes
//     writers naturally. Callers must not depend on multi-process lock
//     semantics here.
//
// # Unfiltered mutation
//
// Update and Delete with an empty Query deliberately target every row of
// the table. There is no safety rail against it; callers own the filter.
//
// # Error handling
//
// Operations return typed errors, see errors.go:
//
//	err := db.Update(ctx, projects, q, values)
//	switch {
//	case errors.Is(err, database.ErrEmptyUpdate):
//	    // caller bug, nothing to apply
//	case db.IsRetryable(err):
//	    // connectivity failure, safe to retry
//	}
//
// The original driver error is always preserved via errors.Unwrap for
// diagnostics; callers key off the typed kind, not the error text.
//
// # Using with Fx dependency injection
//
//	app := fx.New(
//	    logger.FXModule,
//	    database.FXModule,
//	    fx.Provide(
//	        func() logger.Config { return logger.Config{Level: logger.Info} },
//	        func() database.Config { return database.SQLiteConfig(dialect.MemoryDatabase, false) },
//	    ),
//	    fx.Invoke(func(db database.Client) {
//	        // Use db...
//	    }),
//	)
//
// # Observability
//
// Attach an observer to export per-operation metrics:
//
//	obs := observability.NewPrometheusObserver(prometheus.DefaultRegisterer)
//	db = db.WithObserver(obs)
//
// # Testing
//
// Mock the database.Client interface for unit tests, or use
// SQLiteConfig(dialect.MemoryDatabase, false) for fast integration-style
// tests without a server.
package database
