package dialect

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Dialect identifies one supported SQL backend family.
type Dialect string

// The closed set of supported dialects.
const (
	Postgres Dialect = "postgresql"
	MySQL    Dialect = "mysql"
	Oracle   Dialect = "oracle"
	MSSQL    Dialect = "mssql"
	SQLite   Dialect = "sqlite"
)

// MemoryDatabase is the sentinel database name that selects a non-persistent
// in-memory SQLite instance.
const MemoryDatabase = ":memory:"

var (
	// ErrUnsupportedDialect is returned by Lookup for a dialect name outside
	// the registered set.
	ErrUnsupportedDialect = errors.New("dialect: unsupported dialect")

	// ErrUnsupportedDriver is returned when a driver name is not in the
	// dialect's allowed-driver set.
	ErrUnsupportedDriver = errors.New("dialect: unsupported driver for dialect")

	// ErrInvalidIdentifier is returned when a table name cannot be safely
	// embedded in generated SQL.
	ErrInvalidIdentifier = errors.New("dialect: invalid SQL identifier")
)

// Params carries the connection parameters a descriptor or DSN is derived
// from. For SQLite only Database is consulted; the remaining fields are
// ignored and never required.
type Params struct {
	Database string
	User     string
	Password string
	Host     string
	Port     int
	Driver   string
	SSLMode  string
}

// Spec describes one dialect: its identity, its allowed low-level drivers,
// its default port, and the per-capability functions the core dispatches on.
// Specs are immutable; obtain them via Lookup.
type Spec struct {
	Name           Dialect
	AllowedDrivers []string
	DefaultPort    int

	descriptor func(p Params) string
	dsn        func(p Params) string
	lock       func(quoted string) string
	unlock     string
	quote      func(ident string) string
}

var registry = map[Dialect]Spec{
	Postgres: {
		Name:           Postgres,
		AllowedDrivers: []string{"pgx", "pq"},
		DefaultPort:    5432,
		descriptor:     networkDescriptor(Postgres),
		dsn:            postgresDSN,
		lock:           exclusiveModeLock,
		quote:          quoteANSI,
	},
	MySQL: {
		Name:           MySQL,
		AllowedDrivers: []string{"mysql"},
		DefaultPort:    3306,
		descriptor:     networkDescriptor(MySQL),
		dsn:            mysqlDSN,
		lock:           func(quoted string) string { return "LOCK TABLES " + quoted + " WRITE" },
		unlock:         "UNLOCK TABLES",
		quote:          quoteBacktick,
	},
	Oracle: {
		Name:           Oracle,
		AllowedDrivers: []string{"go-ora"},
		DefaultPort:    1521,
		descriptor:     networkDescriptor(Oracle),
		dsn:            oracleDSN,
		lock:           exclusiveModeLock,
		quote:          quoteANSI,
	},
	MSSQL: {
		Name:           MSSQL,
		AllowedDrivers: []string{"sqlserver"},
		DefaultPort:    1433,
		descriptor:     networkDescriptor(MSSQL),
		dsn:            mssqlDSN,
		lock:           func(quoted string) string { return "SELECT TOP 1 1 FROM " + quoted + " WITH (TABLOCKX)" },
		quote:          quoteBracket,
	},
	SQLite: {
		Name:       SQLite,
		descriptor: sqliteDescriptor,
		dsn:        func(p Params) string { return p.Database },
		quote:      quoteANSI,
	},
}

// Lookup resolves a dialect name to its Spec. The name must be one of the
// Dialect constants; anything else fails with ErrUnsupportedDialect.
func Lookup(name string) (Spec, error) {
	s, ok := registry[Dialect(name)]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedDialect, name, strings.Join(Registered(), ", "))
	}
	return s, nil
}

// Registered returns the names of all registered dialects, sorted.
func Registered() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// ValidateDriver checks that driver is allowed for this dialect. An empty
// driver always validates and means "use the backend's default driver".
func (s Spec) ValidateDriver(driver string) error {
	if driver == "" {
		return nil
	}
	for _, d := range s.AllowedDrivers {
		if d == driver {
			return nil
		}
	}
	return fmt.Errorf("%w: driver %q is not supported for dialect %q", ErrUnsupportedDriver, driver, s.Name)
}

// Descriptor derives the canonical connection descriptor for p. It is a pure
// function: identical Params always yield byte-identical descriptors, and no
// network I/O is performed. A zero Port is substituted with the dialect's
// default port before formatting.
func (s Spec) Descriptor(p Params) string {
	return s.descriptor(s.withDefaults(p))
}

// DSN derives the backend-native connection string consumed by the dialect's
// database driver. Like Descriptor it is pure and deterministic.
func (s Spec) DSN(p Params) string {
	return s.dsn(s.withDefaults(p))
}

// LockStatement returns the SQL statement that takes an exclusive table lock
// on table for the duration of the surrounding transaction. An empty
// statement with a nil error means the dialect needs no lock (SQLite). The
// table name is validated and quoted before being embedded.
func (s Spec) LockStatement(table string) (string, error) {
	if !ValidIdentifier(table) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
	}
	if s.lock == nil {
		return "", nil
	}
	return s.lock(s.Quote(table)), nil
}

// UnlockStatement returns the statement that releases session-scoped table
// locks, for dialects whose lock outlives the transaction (MySQL's LOCK
// TABLES). The second return is false when no release is needed.
func (s Spec) UnlockStatement() (string, bool) {
	return s.unlock, s.unlock != ""
}

// Quote renders an identifier in the dialect's quoting style. Dotted names
// are quoted per segment, so "app.project" stays schema-qualified.
func (s Spec) Quote(ident string) string {
	parts := strings.Split(ident, ".")
	for i, part := range parts {
		parts[i] = s.quote(part)
	}
	return strings.Join(parts, ".")
}

func (s Spec) withDefaults(p Params) Params {
	if p.Port == 0 {
		p.Port = s.DefaultPort
	}
	return p
}

// validIdentifierRe matches plain or schema-qualified SQL identifiers.
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// ValidIdentifier reports whether s is safe to embed as a table identifier in
// generated SQL.
func ValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

func networkDescriptor(name Dialect) func(Params) string {
	return func(p Params) string {
		scheme := string(name)
		if p.Driver != "" {
			scheme += "+" + p.Driver
		}
		return fmt.Sprintf("%s://%s:%s@%s:%d/%s", scheme, p.User, p.Password, p.Host, p.Port, p.Database)
	}
}

// sqliteDescriptor derives a descriptor from the database alone: the
// ":memory:" sentinel maps to a bare scheme with no path, anything else is
// treated as a file path and embedded exactly once. No user, password, host
// or port component ever appears.
func sqliteDescriptor(p Params) string {
	if p.Database == MemoryDatabase {
		return "sqlite://"
	}
	return "sqlite:///" + p.Database
}

func postgresDSN(p Params) string {
	sslmode := p.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, sslmode)
}

func mysqlDSN(p Params) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		p.User, p.Password, p.Host, p.Port, p.Database)
}

func mssqlDSN(p Params) string {
	return fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
		p.User, p.Password, p.Host, p.Port, p.Database)
}

func oracleDSN(p Params) string {
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		p.User, p.Password, p.Host, p.Port, p.Database)
}

func exclusiveModeLock(quoted string) string {
	return "LOCK TABLE " + quoted + " IN EXCLUSIVE MODE"
}

func quoteANSI(ident string) string     { return `"` + ident + `"` }
func quoteBacktick(ident string) string { return "`" + ident + "`" }
func quoteBracket(ident string) string  { return "[" + ident + "]" }
