package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/sift/internal/filter"
	"github.com/roach88/sift/internal/ir"
	"github.com/roach88/sift/internal/querysql"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial strings table
const currentSchemaVersion = 1

// DefaultSQLiteDSN opens a private in-memory database.
const DefaultSQLiteDSN = ":memory:"

const recordTable = "strings"

// SQLite is a Store backed by database/sql and mattn/go-sqlite3.
//
// The pool is pinned to one connection. That keeps an in-memory database
// alive for the life of the store and serializes writers, which makes
// INSERT ... ON CONFLICT DO NOTHING the atomic insert-if-absent.
type SQLite struct {
	db       *sql.DB
	compiler *querysql.SQLCompiler
}

var _ Store = (*SQLite)(nil)

// OpenSQLite creates or opens a SQLite database at dsn.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode (file databases; in-memory databases report "memory")
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLite{db: db, compiler: querysql.NewSQLCompiler(recordTable)}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// InsertIfAbsent writes rec unless its id already exists.
// ON CONFLICT(id) DO NOTHING makes a duplicate a zero-row insert, never an overwrite.
func (s *SQLite) InsertIfAbsent(ctx context.Context, rec ir.Record) (bool, error) {
	freqJSON, err := json.Marshal(rec.Properties.CharacterFrequency)
	if err != nil {
		return false, fmt.Errorf("insert record: marshal frequency: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO strings
		(id, value, length, is_palindrome, unique_characters, word_count, character_frequency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Value,
		rec.Properties.Length,
		rec.Properties.IsPalindrome,
		rec.Properties.UniqueCharacters,
		rec.Properties.WordCount,
		string(freqJSON),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("insert record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert record: rows affected: %w", err)
	}
	return n == 1, nil
}

// Get returns the record with the given fingerprint.
func (s *SQLite) Get(ctx context.Context, id string) (ir.Record, bool, error) {
	query := fmt.Sprintf("SELECT %s FROM strings WHERE id = ?", columnList())
	row := s.db.QueryRowContext(ctx, query, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return ir.Record{}, false, nil
	}
	if err != nil {
		return ir.Record{}, false, fmt.Errorf("get record: %w", err)
	}
	return rec, true, nil
}

// Delete removes the record with the given fingerprint.
func (s *SQLite) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM strings WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete record: rows affected: %w", err)
	}
	return n == 1, nil
}

// Scan returns every record ordered by insertion.
// Rows are fully read before returning, so the slice is a snapshot.
func (s *SQLite) Scan(ctx context.Context) ([]ir.Record, error) {
	return s.Select(ctx, ir.Filters{})
}

// Select returns the records matching f in insertion order.
//
// Numeric and boolean predicates are evaluated by SQLite; the residual
// contains_character predicate is applied in Go afterwards.
func (s *SQLite) Select(ctx context.Context, f ir.Filters) ([]ir.Record, error) {
	query, params := s.compiler.Select(f)

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	defer rows.Close()

	records := []ir.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("select records: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return filter.Apply(records, querysql.Residual(f)), nil
}

// Len returns the number of stored records.
func (s *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM strings").Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads the columns of querysql.RecordColumns, in order.
func scanRecord(row rowScanner) (ir.Record, error) {
	var (
		rec       ir.Record
		freqJSON  string
		createdAt string
	)
	err := row.Scan(
		&rec.ID,
		&rec.Value,
		&rec.Properties.Length,
		&rec.Properties.IsPalindrome,
		&rec.Properties.UniqueCharacters,
		&rec.Properties.WordCount,
		&freqJSON,
		&createdAt,
	)
	if err != nil {
		return ir.Record{}, err
	}

	if err := json.Unmarshal([]byte(freqJSON), &rec.Properties.CharacterFrequency); err != nil {
		return ir.Record{}, fmt.Errorf("unmarshal frequency for %s: %w", rec.ID, err)
	}
	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return ir.Record{}, fmt.Errorf("parse created_at for %s: %w", rec.ID, err)
	}
	rec.Properties.SHA256Hash = rec.ID
	return rec, nil
}

func columnList() string {
	return strings.Join(querysql.RecordColumns, ", ")
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and records the schema version.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *SQLite) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
