// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/isbn-search/pkg/types"
)

const dbFile = "history.db"

// SQLiteStore keeps search history in <dir>/history.db.
type SQLiteStore struct {
	db         *sql.DB
	maxEntries int
}

// NewSQLiteStore opens or creates the history database under cfg.Dir and
// creates the schema if it does not exist.
func NewSQLiteStore(cfg types.HistoryConfig) (*SQLiteStore, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "history"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{
		db:         db,
		maxEntries: maxEntries(cfg),
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			input TEXT NOT NULL,
			valid TEXT NOT NULL,
			invalid TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			result_count INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			search_id TEXT NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			isbn TEXT,
			title TEXT,
			publisher TEXT,
			pubdate TEXT,
			author TEXT,
			series TEXT,
			volume TEXT,
			cover TEXT,
			PRIMARY KEY (search_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores rec and its present books in one transaction.
func (s *SQLiteStore) Record(ctx context.Context, rec types.SearchRecord) error {
	valid, err := json.Marshal(nonNil(rec.Valid))
	if err != nil {
		return fmt.Errorf("encoding valid identifiers: %w", err)
	}
	invalid, err := json.Marshal(nonNilInvalid(rec.Invalid))
	if err != nil {
		return fmt.Errorf("encoding invalid identifiers: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO searches (id, input, valid, invalid, status, error, result_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Input, string(valid), string(invalid), string(rec.Status), rec.Error,
		len(rec.Books), rec.CreatedAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("inserting search %s: %w", rec.ID, err)
	}

	for i, b := range rec.Books {
		if b == nil {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO results (search_id, position, isbn, title, publisher, pubdate, author, series, volume, cover)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, i, b.ISBN, b.Title, b.Publisher, b.PubDate, b.Author, b.Series, b.Volume, b.Cover,
		); err != nil {
			return fmt.Errorf("inserting result %d of search %s: %w", i, rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing search %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to n records, newest first. Zero or negative n uses
// the configured maximum.
func (s *SQLiteStore) Recent(ctx context.Context, n int) ([]types.SearchRecord, error) {
	if n <= 0 {
		n = s.maxEntries
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input, valid, invalid, status, error, result_count, created_at
		 FROM searches ORDER BY created_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}

	var records []types.SearchRecord
	var counts []int
	for rows.Next() {
		rec, count, err := scanSearch(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		records = append(records, rec)
		counts = append(counts, count)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating searches: %w", err)
	}
	rows.Close()

	for i := range records {
		if err := s.loadBooks(ctx, &records[i], counts[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Get returns the record with the given ID or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (types.SearchRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, input, valid, invalid, status, error, result_count, created_at
		 FROM searches WHERE id = ?`, id)

	rec, count, err := scanSearch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.SearchRecord{}, ErrNotFound
	}
	if err != nil {
		return types.SearchRecord{}, err
	}
	if err := s.loadBooks(ctx, &rec, count); err != nil {
		return types.SearchRecord{}, err
	}
	return rec, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSearch(sc scanner) (types.SearchRecord, int, error) {
	var (
		rec            types.SearchRecord
		valid, invalid string
		status         string
		errMsg         sql.NullString
		count          int
		createdAt      int64
	)
	if err := sc.Scan(&rec.ID, &rec.Input, &valid, &invalid, &status, &errMsg, &count, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, 0, err
		}
		return rec, 0, fmt.Errorf("scanning search: %w", err)
	}
	if err := json.Unmarshal([]byte(valid), &rec.Valid); err != nil {
		return rec, 0, fmt.Errorf("decoding valid identifiers of %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(invalid), &rec.Invalid); err != nil {
		return rec, 0, fmt.Errorf("decoding invalid identifiers of %s: %w", rec.ID, err)
	}
	if len(rec.Valid) == 0 {
		rec.Valid = nil
	}
	if len(rec.Invalid) == 0 {
		rec.Invalid = nil
	}
	rec.Status = types.SearchStatus(status)
	rec.Error = errMsg.String
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	return rec, count, nil
}

// loadBooks rebuilds the lookup result of rec with nil gaps for misses.
func (s *SQLiteStore) loadBooks(ctx context.Context, rec *types.SearchRecord, count int) error {
	if count == 0 {
		return nil
	}
	rec.Books = make([]*types.Book, count)

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, isbn, title, publisher, pubdate, author, series, volume, cover
		 FROM results WHERE search_id = ? ORDER BY position`, rec.ID)
	if err != nil {
		return fmt.Errorf("querying results of %s: %w", rec.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pos int
			b   types.Book
		)
		if err := rows.Scan(&pos, &b.ISBN, &b.Title, &b.Publisher, &b.PubDate, &b.Author, &b.Series, &b.Volume, &b.Cover); err != nil {
			return fmt.Errorf("scanning result of %s: %w", rec.ID, err)
		}
		if pos < 0 || pos >= count {
			return fmt.Errorf("result position %d out of range for search %s", pos, rec.ID)
		}
		rec.Books[pos] = &b
	}
	return rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilInvalid(s []types.InvalidISBN) []types.InvalidISBN {
	if s == nil {
		return []types.InvalidISBN{}
	}
	return s
}
