package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Condition is a predicate or query modifier beyond simple equality.
// Conditions are built with the constructors below and carried in
// Query.Conditions; the column they reference takes part in schema
// validation like any filter key.
type Condition struct {
	col   string
	apply func(tx *gorm.DB) *gorm.DB
}

// column returns the column the condition references, empty for modifiers
// like Limit and Offset.
func (c Condition) column() string { return c.col }

func whereExpr(column string, expr clause.Expression) Condition {
	return Condition{
		col: column,
		apply: func(tx *gorm.DB) *gorm.DB {
			return tx.Where(expr)
		},
	}
}

// GT matches rows where column > value.
func GT(column string, value interface{}) Condition {
	return whereExpr(column, clause.Gt{Column: clause.Column{Name: column}, Value: value})
}

// GTE matches rows where column >= value.
func GTE(column string, value interface{}) Condition {
	return whereExpr(column, clause.Gte{Column: clause.Column{Name: column}, Value: value})
}

// LT matches rows where column < value.
func LT(column string, value interface{}) Condition {
	return whereExpr(column, clause.Lt{Column: clause.Column{Name: column}, Value: value})
}

// LTE matches rows where column <= value.
func LTE(column string, value interface{}) Condition {
	return whereExpr(column, clause.Lte{Column: clause.Column{Name: column}, Value: value})
}

// NEQ matches rows where column <> value.
func NEQ(column string, value interface{}) Condition {
	return whereExpr(column, clause.Neq{Column: clause.Column{Name: column}, Value: value})
}

// In matches rows where column is any of values.
func In(column string, values ...interface{}) Condition {
	return whereExpr(column, clause.IN{Column: clause.Column{Name: column}, Values: values})
}

// Like matches rows where column matches the SQL LIKE pattern.
func Like(column string, pattern string) Condition {
	return whereExpr(column, clause.Like{Column: clause.Column{Name: column}, Value: pattern})
}

// IsNull matches rows where column is NULL.
func IsNull(column string) Condition {
	return whereExpr(column, clause.Eq{Column: clause.Column{Name: column}, Value: nil})
}

// NotNull matches rows where column is not NULL.
func NotNull(column string) Condition {
	return whereExpr(column, clause.Neq{Column: clause.Column{Name: column}, Value: nil})
}

// OrderBy sorts the result by column. Without it, row order is whatever the
// backend happens to return.
func OrderBy(column string, desc bool) Condition {
	return Condition{
		col: column,
		apply: func(tx *gorm.DB) *gorm.DB {
			return tx.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
		},
	}
}

// Limit caps the number of rows the query touches.
func Limit(n int) Condition {
	return Condition{
		apply: func(tx *gorm.DB) *gorm.DB {
			return tx.Limit(n)
		},
	}
}

// Offset skips the first n rows of the result.
func Offset(n int) Condition {
	return Condition{
		apply: func(tx *gorm.DB) *gorm.DB {
			return tx.Offset(n)
		},
	}
}
