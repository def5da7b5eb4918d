package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockStatement(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    string
	}{
		{Postgres, `LOCK TABLE "project" IN EXCLUSIVE MODE`},
		{Oracle, `LOCK TABLE "project" IN EXCLUSIVE MODE`},
		{MySQL, "LOCK TABLES `project` WRITE"},
		{MSSQL, "SELECT TOP 1 1 FROM [project] WITH (TABLOCKX)"},
		{SQLite, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			spec, err := Lookup(string(tt.dialect))
			require.NoError(t, err)

			stmt, err := spec.LockStatement("project")
			require.NoError(t, err)
			assert.Equal(t, tt.want, stmt)
		})
	}
}

func TestLockStatementRejectsInvalidIdentifier(t *testing.T) {
	for _, name := range Registered() {
		spec, err := Lookup(name)
		require.NoError(t, err)

		_, err = spec.LockStatement(`project"; DROP TABLE users; --`)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, "dialect %s", name)
	}
}

func TestUnlockStatement(t *testing.T) {
	my, _ := Lookup(string(MySQL))
	stmt, ok := my.UnlockStatement()
	assert.True(t, ok)
	assert.Equal(t, "UNLOCK TABLES", stmt)

	for _, name := range []string{"postgresql", "oracle", "mssql", "sqlite"} {
		spec, _ := Lookup(name)
		_, ok := spec.UnlockStatement()
		assert.False(t, ok, "dialect %s should not need an unlock", name)
	}
}
