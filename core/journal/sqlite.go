package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists entries to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := []string{
		`CREATE TABLE IF NOT EXISTS save_journal (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        ts INTEGER NOT NULL,
        day TEXT NOT NULL,
        success INTEGER NOT NULL,
        entry TEXT NOT NULL
    );`,
		`CREATE INDEX IF NOT EXISTS save_journal_day ON save_journal (day);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			if cerr := db.Close(); cerr != nil {
				return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
			}
			return nil, err
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes the entry to the database.
func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	success := 0
	if e.Success {
		success = 1
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO save_journal (ts, day, success, entry) VALUES (?, ?, ?, ?)`,
		e.Timestamp.UnixNano(), e.Date.String(), success, string(b))
	return err
}

// Query returns entries matching q. Day bounds and the failure filter run in
// SQL; the program filter needs the decoded records.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Entry, error) {
	var args []any
	query := `SELECT entry FROM save_journal WHERE 1=1`
	if !q.From.IsZero() {
		query += ` AND day >= ?`
		args = append(args, q.From.String())
	}
	if !q.To.IsZero() {
		query += ` AND day <= ?`
		args = append(args, q.To.String())
	}
	if q.Failed {
		query += ` AND success = 0`
	}
	query += ` ORDER BY ts, id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Entry
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var e Entry
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, fmt.Errorf("unmarshal entry: %w", err)
		}
		if !q.Match(e) {
			continue
		}
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
