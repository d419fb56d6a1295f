// Package querysql compiles predicate sets to parameterized SQLite SQL.
//
// Only predicates whose SQL semantics match the Go filter engine exactly are
// compiled: is_palindrome, min_length, max_length and word_count.
// contains_character stays in Go because SQLite's lower() folds ASCII only.
// Callers re-apply the full predicate set to the rows they read back.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/sift/internal/ir"
)

// RecordColumns is the column list read back for a record, in scan order.
var RecordColumns = []string{
	"id",
	"value",
	"length",
	"is_palindrome",
	"unique_characters",
	"word_count",
	"character_frequency",
	"created_at",
}

// SQLCompiler compiles ir.Filters to parameterized SQL.
//
// All values are parameterized, never interpolated.
// Every SELECT ends in ORDER BY seq ASC so results follow insertion order.
type SQLCompiler struct {
	// Table is the record table name.
	Table string
}

// NewSQLCompiler creates a compiler for the given table.
func NewSQLCompiler(table string) *SQLCompiler {
	return &SQLCompiler{Table: table}
}

// condition is one "column op ?" fragment.
type condition struct {
	sql   string
	param any
}

// Where compiles f to a WHERE fragment (without the keyword) and its params.
// An empty set compiles to "1 = 1".
func (c *SQLCompiler) Where(f ir.Filters) (string, []any) {
	conds := compileConditions(f)
	if len(conds) == 0 {
		return "1 = 1", nil
	}

	parts := make([]string, len(conds))
	params := make([]any, len(conds))
	for i, cond := range conds {
		parts[i] = cond.sql
		params[i] = cond.param
	}
	return strings.Join(parts, " AND "), params
}

// Select compiles a full record query for f.
func (c *SQLCompiler) Select(f ir.Filters) (string, []any) {
	where, params := c.Where(f)
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY seq ASC",
		strings.Join(RecordColumns, ", "),
		c.Table,
		where)
	return sql, params
}

// Residual returns the part of f that Where does not compile.
// The caller must evaluate it in Go.
func Residual(f ir.Filters) ir.Filters {
	return ir.Filters{ContainsCharacter: f.ContainsCharacter}
}

func compileConditions(f ir.Filters) []condition {
	var conds []condition
	if f.IsPalindrome != nil {
		conds = append(conds, condition{"is_palindrome = ?", *f.IsPalindrome})
	}
	if f.MinLength != nil {
		conds = append(conds, condition{"length >= ?", int64(*f.MinLength)})
	}
	if f.MaxLength != nil {
		conds = append(conds, condition{"length <= ?", int64(*f.MaxLength)})
	}
	if f.WordCount != nil {
		conds = append(conds, condition{"word_count = ?", int64(*f.WordCount)})
	}
	return conds
}
