package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Aleph-Alpha/rdb/v1/dialect"
)

// nopLogger satisfies Logger without output.
type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}
func (nopLogger) Fatal(string, error, ...map[string]interface{}) {}

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(nopLogger{}, false),
	})
	require.NoError(t, err)

	spec, err := dialect.Lookup("postgresql")
	require.NoError(t, err)

	cfg := PostgresConfig(Connection{Host: "localhost", Database: "testdb"})
	return newDatabaseWithConn(cfg, spec, nopLogger{}, gdb), mock
}

func newMockMySQLDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(nopLogger{}, false),
	})
	require.NoError(t, err)

	spec, err := dialect.Lookup("mysql")
	require.NoError(t, err)

	cfg := MySQLConfig(Connection{Host: "localhost", Database: "testdb"})
	return newDatabaseWithConn(cfg, spec, nopLogger{}, gdb), mock
}

var projectTable = NewTable("project", "name", "annotation")

func TestCreateInsertsRow(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	// gorm orders map columns alphabetically
	mock.ExpectExec(`INSERT INTO "project"`).
		WithArgs("A1", "P1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := db.Create(context.Background(), projectTable, Record{"name": "P1", "annotation": "A1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsUnknownColumnBeforeSQL(t *testing.T) {
	db, mock := newMockDatabase(t)

	err := db.Create(context.Background(), projectTable, Record{"owner": "nobody"})

	var unknown *UnknownColumnError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "owner", unknown.Column)
	assert.NoError(t, mock.ExpectationsWereMet(), "no SQL may be issued")
}

func TestCreateWrapsConstraintViolation(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "project"`).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "project_pkey"`))
	mock.ExpectRollback()

	err := db.Create(context.Background(), projectTable, Record{"name": "P1"})

	var recordErr *RecordError
	require.ErrorAs(t, err, &recordErr)
	assert.Equal(t, "create", recordErr.Op)
	assert.Equal(t, "project", recordErr.Table)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkCreateEmptyIsNoOp(t *testing.T) {
	db, mock := newMockDatabase(t)

	require.NoError(t, db.BulkCreate(context.Background(), projectTable, nil))
	require.NoError(t, db.BulkCreate(context.Background(), projectTable, []Record{}))
	assert.NoError(t, mock.ExpectationsWereMet(), "no session may be borrowed")
}

func TestBulkCreateSingleStatement(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "project"`).
		WithArgs("A1", "P1", "A2", "P2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := db.BulkCreate(context.Background(), projectTable, []Record{
		{"name": "P1", "annotation": "A1"},
		{"name": "P2", "annotation": "A2"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetrieveAll(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "project" WHERE`).
		WithArgs("P2").
		WillReturnRows(sqlmock.NewRows([]string{"name", "annotation"}).
			AddRow("P2", "A2").
			AddRow("P2", "A2-bis"))
	mock.ExpectCommit()

	records, err := db.Retrieve(context.Background(), projectTable,
		Query{Filters: Filters{"name": "P2"}}, FetchAll)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "A2", records[0]["annotation"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetrieveOneLimitsToSingleRow(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "project" WHERE .* LIMIT`).
		WithArgs("P1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"name", "annotation"}).AddRow("P1", "A1"))
	mock.ExpectCommit()

	records, err := db.Retrieve(context.Background(), projectTable,
		Query{Filters: Filters{"name": "P1"}}, FetchOne)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "P1", records[0]["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetrieveOneAbsentReturnsNil(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "project"`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "annotation"}))
	mock.ExpectCommit()

	records, err := db.Retrieve(context.Background(), projectTable,
		Query{Filters: Filters{"name": "absent"}}, FetchOne)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetrieveProjection(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "name" FROM "project"`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("P1"))
	mock.ExpectCommit()

	records, err := db.Retrieve(context.Background(), projectTable,
		Query{Columns: []string{"name"}}, FetchAll)
	require.NoError(t, err)
	require.Len(t, records, 1)
	_, hasAnnotation := records[0]["annotation"]
	assert.False(t, hasAnnotation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetrieveInvalidFetchMode(t *testing.T) {
	db, mock := newMockDatabase(t)

	_, err := db.Retrieve(context.Background(), projectTable, Query{}, FetchMode("some"))
	assert.ErrorIs(t, err, ErrInvalidFetchMode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLocksTableBeforeWriting(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectExec(`LOCK TABLE "project" IN EXCLUSIVE MODE`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE "project" SET`).
		WithArgs("A2-updated", "P2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := db.Update(context.Background(), projectTable,
		Query{Filters: Filters{"name": "P2"}},
		Record{"annotation": "A2-updated"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMySQLReleasesSessionLock(t *testing.T) {
	db, mock := newMockMySQLDatabase(t)

	mock.ExpectBegin()
	mock.ExpectExec("LOCK TABLES `project` WRITE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE `project` SET").
		WithArgs("A2-updated", "P2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UNLOCK TABLES").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := db.Update(context.Background(), projectTable,
		Query{Filters: Filters{"name": "P2"}},
		Record{"annotation": "A2-updated"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmptyValues(t *testing.T) {
	db, mock := newMockDatabase(t)

	err := db.Update(context.Background(), projectTable,
		Query{Filters: Filters{"name": "P2"}}, Record{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateIdempotent(t *testing.T) {
	db, mock := newMockDatabase(t)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(`LOCK TABLE "project" IN EXCLUSIVE MODE`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE "project" SET`).
			WithArgs("A2-updated", "P2").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()
	}

	q := Query{Filters: Filters{"name": "P2"}}
	values := Record{"annotation": "A2-updated"}
	require.NoError(t, db.Update(context.Background(), projectTable, q, values))
	require.NoError(t, db.Update(context.Background(), projectTable, q, values))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStrictEmptyRollsBack(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "project"`).
		WithArgs("absent").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := db.Delete(context.Background(), projectTable,
		Query{Filters: Filters{"name": "absent"}}, true)
	assert.ErrorIs(t, err, ErrNoRecordsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteLenientEmptySucceeds(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "project"`).
		WithArgs("absent").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	records, err := db.Delete(context.Background(), projectTable,
		Query{Filters: Filters{"name": "absent"}}, false)
	require.NoError(t, err)
	assert.Nil(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCapturesProjectionBeforeDeleting(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "annotation" FROM "project"`).
		WithArgs("P1").
		WillReturnRows(sqlmock.NewRows([]string{"annotation"}).AddRow("A1"))
	mock.ExpectExec(`DELETE FROM "project"`).
		WithArgs("P1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	records, err := db.Delete(context.Background(), projectTable,
		Query{Filters: Filters{"name": "P1"}, Columns: []string{"annotation"}}, false)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A1", records[0]["annotation"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExists(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM "project"`).
		WithArgs("P2", 1).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectCommit()

	exists, err := db.Exists(context.Background(), projectTable,
		Query{Filters: Filters{"name": "P2"}})
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsAbsent(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM "project"`).
		WithArgs("P1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectCommit()

	exists, err := db.Exists(context.Background(), projectTable,
		Query{Filters: Filters{"name": "P1"}})
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteFetchBindsNamedParameters(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT name FROM project WHERE annotation = \$1`).
		WithArgs("A2").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("P2"))
	mock.ExpectCommit()

	records, err := db.Execute(context.Background(),
		"SELECT name FROM project WHERE annotation = @annotation",
		map[string]interface{}{"annotation": "A2"},
		true)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "P2", records[0]["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteWithoutFetchCommits(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE TABLE project`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	records, err := db.Execute(context.Background(), "TRUNCATE TABLE project", nil, false)
	require.NoError(t, err)
	assert.Nil(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackOnBackendFailure(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "project"`).
		WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()

	_, err := db.Retrieve(context.Background(), projectTable, Query{}, FetchAll)

	var recordErr *RecordError
	require.ErrorAs(t, err, &recordErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestObserverReceivesOperations(t *testing.T) {
	db, mock := newMockDatabase(t)

	obs := &testObserver{}
	out := db.WithObserver(obs)
	require.Same(t, db, out, "WithObserver should return same instance for chaining")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "project"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, db.Create(context.Background(), projectTable, Record{"name": "P1"}))

	ops := obs.GetOperations()
	require.Len(t, ops, 1)
	assert.Equal(t, "database", ops[0].Component)
	assert.Equal(t, "create", ops[0].Operation)
	assert.Equal(t, "project", ops[0].Resource)
	assert.Equal(t, int64(1), ops[0].Size)
	assert.NoError(t, ops[0].Error)
}

func TestObserveOperationNilObserverNoPanic(t *testing.T) {
	d := &Database{}
	d.observeOperation("create", "project", 0, nil, 0, nil)
}
