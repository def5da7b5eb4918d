package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// withSession runs fn inside exactly one transaction on a freshly borrowed
// connection. The transaction commits when fn returns nil and rolls back
// otherwise, so the session is released on every exit path. The returned
// error is classified into the typed taxonomy, and the operation is
// reported to the observer, if one is attached.
func (d *Database) withSession(ctx context.Context, op, table string, fn func(tx *gorm.DB) (int64, error)) error {
	start := time.Now()

	var rows int64
	var err error

	db := d.DB()
	if db == nil {
		err = &ConnectionError{Err: errors.New("database client is not initialized")}
	} else {
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			n, fnErr := fn(tx)
			rows = n
			return fnErr
		})
		err = classifyError(op, table, err)
	}

	d.observeOperation(op, table, time.Since(start), err, rows, nil)
	return err
}

// applyQuery narrows tx to the rows the query targets: equality filters
// first, then the advanced conditions in caller order.
func applyQuery(tx *gorm.DB, q Query) *gorm.DB {
	if len(q.Filters) > 0 {
		tx = tx.Where(map[string]interface{}(q.Filters))
	}
	for _, cond := range q.Conditions {
		tx = cond.apply(tx)
	}
	return tx
}

// mutable returns a session that permits updates and deletes without a
// WHERE clause. An empty query deliberately targets every row.
func mutable(tx *gorm.DB) *gorm.DB {
	return tx.Session(&gorm.Session{AllowGlobalUpdate: true})
}

// Create inserts one row into the table.
//
// The record's columns are validated against the table descriptor before
// any SQL is issued. Constraint violations surface as *RecordError.
//
// Example:
//
//	projects := database.NewTable("project", "name", "annotation")
//	err := db.Create(ctx, projects, database.Record{
//	    "name":       "P1",
//	    "annotation": "A1",
//	})
func (d *Database) Create(ctx context.Context, table Table, record Record) error {
	if err := validateColumns(table, recordColumns(record)); err != nil {
		return err
	}

	return d.withSession(ctx, "create", table.Name, func(tx *gorm.DB) (int64, error) {
		res := tx.Table(table.Name).Create(map[string]interface{}(record))
		return res.RowsAffected, res.Error
	})
}

// BulkCreate inserts all records with a single statement, all-or-nothing.
// An empty slice is a no-op: no session is borrowed and no SQL is issued.
// Column validation covers the union of columns across all records.
func (d *Database) BulkCreate(ctx context.Context, table Table, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := validateColumns(table, recordsColumns(records)); err != nil {
		return err
	}

	return d.withSession(ctx, "bulk_create", table.Name, func(tx *gorm.DB) (int64, error) {
		res := tx.Table(table.Name).Create([]map[string]interface{}(records))
		return res.RowsAffected, res.Error
	})
}

// Retrieve returns the rows matching q.
//
// With FetchOne the result holds at most one record and a nil slice means
// no match; with FetchAll it holds every matching row, possibly none. Any
// other mode fails with ErrInvalidFetchMode. When q.Columns is set the
// records contain only those columns.
//
// Row order is unspecified unless q.Conditions includes OrderBy; no
// implicit ordering is imposed.
func (d *Database) Retrieve(ctx context.Context, table Table, q Query, mode FetchMode) ([]Record, error) {
	if mode != FetchOne && mode != FetchAll {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFetchMode, mode)
	}
	if err := validateColumns(table, queryColumns(q)); err != nil {
		return nil, err
	}

	var out []Record
	err := d.withSession(ctx, "retrieve", table.Name, func(tx *gorm.DB) (int64, error) {
		stmt := applyQuery(tx.Table(table.Name), q)
		if len(q.Columns) > 0 {
			stmt = stmt.Select(q.Columns)
		}
		if mode == FetchOne {
			stmt = stmt.Limit(1)
		}
		res := stmt.Find(&out)
		return res.RowsAffected, res.Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies values to every row matching q, atomically.
//
// The dialect's exclusive table lock is acquired before the rows are
// mutated, so two concurrent updates targeting overlapping rows serialize
// instead of interleaving partial writes. See the package documentation for
// the lock semantics of each backend. An empty value map fails with
// ErrEmptyUpdate before any session is borrowed.
func (d *Database) Update(ctx context.Context, table Table, q Query, values Record) error {
	if len(values) == 0 {
		return ErrEmptyUpdate
	}
	if err := validateColumns(table, append(queryColumns(q), recordColumns(values)...)); err != nil {
		return err
	}

	return d.withSession(ctx, "update", table.Name, func(tx *gorm.DB) (int64, error) {
		lock, err := d.spec.LockStatement(table.Name)
		if err != nil {
			return 0, err
		}
		if lock != "" {
			if err := tx.Exec(lock).Error; err != nil {
				return 0, err
			}
		}

		res := applyQuery(mutable(tx).Table(table.Name), q).Updates(map[string]interface{}(values))
		updateErr := res.Error

		// Backends whose lock outlives the transaction (mysql) must release
		// it before the connection returns to the pool.
		if unlock, ok := d.spec.UnlockStatement(); ok && lock != "" {
			if err := tx.Exec(unlock).Error; err != nil && updateErr == nil {
				updateErr = err
			}
		}

		return res.RowsAffected, updateErr
	})
}

// Delete removes the rows matching q.
//
// When q.Columns is set, the projected values of the doomed rows are read
// inside the same transaction before deletion and returned; otherwise the
// result is nil. With errorWhenEmpty, a filter matching zero rows fails
// with ErrNoRecordsAffected and nothing is deleted; without it the call
// succeeds silently.
func (d *Database) Delete(ctx context.Context, table Table, q Query, errorWhenEmpty bool) ([]Record, error) {
	if err := validateColumns(table, queryColumns(q)); err != nil {
		return nil, err
	}

	var captured []Record
	err := d.withSession(ctx, "delete", table.Name, func(tx *gorm.DB) (int64, error) {
		if len(q.Columns) > 0 {
			res := applyQuery(tx.Table(table.Name), q).Select(q.Columns).Find(&captured)
			if res.Error != nil {
				return 0, res.Error
			}
		}

		res := applyQuery(mutable(tx).Table(table.Name), q).Delete(nil)
		if res.Error != nil {
			return res.RowsAffected, res.Error
		}
		if errorWhenEmpty && res.RowsAffected == 0 {
			return 0, ErrNoRecordsAffected
		}
		return res.RowsAffected, nil
	})
	if err != nil {
		return nil, err
	}
	if len(q.Columns) == 0 {
		return nil, nil
	}
	return captured, nil
}

// Exists reports whether at least one row matches q. Only a constant is
// selected, full rows are never fetched.
func (d *Database) Exists(ctx context.Context, table Table, q Query) (bool, error) {
	if err := validateColumns(table, queryColumns(q)); err != nil {
		return false, err
	}

	var found []int64
	err := d.withSession(ctx, "exists", table.Name, func(tx *gorm.DB) (int64, error) {
		res := applyQuery(tx.Table(table.Name), q).Select("1").Limit(1).Find(&found)
		return res.RowsAffected, res.Error
	})
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

// Execute runs raw parameterized SQL inside a transaction.
//
// Named parameters are referenced as @name in the statement and bound from
// params; caller values are never interpolated into the SQL text. With
// fetch the resulting rows are returned as records, otherwise the statement
// is executed, committed and a nil slice is returned.
//
// Example:
//
//	rows, err := db.Execute(ctx,
//	    "SELECT name FROM project WHERE annotation = @annotation",
//	    map[string]interface{}{"annotation": "A2"},
//	    true,
//	)
func (d *Database) Execute(ctx context.Context, sql string, params map[string]interface{}, fetch bool) ([]Record, error) {
	args := make([]interface{}, 0, 1)
	if len(params) > 0 {
		args = append(args, params)
	}

	var out []Record
	err := d.withSession(ctx, "execute", "", func(tx *gorm.DB) (int64, error) {
		if fetch {
			res := tx.Raw(sql, args...).Scan(&out)
			return res.RowsAffected, res.Error
		}
		res := tx.Exec(sql, args...)
		return res.RowsAffected, res.Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
