package blobstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"irpack/internal/ir"
	"irpack/internal/irser"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore keeps modules in a SQLite database in WAL mode.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("blobstore: sqlite store needs a path")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	// One writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// PutModule implements Store in a single transaction.
func (s *SQLiteStore) PutModule(ctx context.Context, module string, ser *irser.Serialized) (err error) {
	if err := checkPut(module, ser); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put module %s: %w", module, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM modules WHERE name = ?`, module); err != nil {
		return fmt.Errorf("put module %s: %w", module, err)
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO modules (name, header) VALUES (?, ?)`, module, ser.Header); err != nil {
		return fmt.Errorf("put module %s: %w", module, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO blobs (module, id, data) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("put module %s: %w", module, err)
	}
	defer stmt.Close()
	for _, id := range sortedIDs(ser) {
		if _, err = stmt.ExecContext(ctx, module, blobKey(id), ser.Blobs[id]); err != nil {
			return fmt.Errorf("put blob %s of %s: %w", id, module, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("put module %s: %w", module, err)
	}
	return nil
}

// Header implements Store.
func (s *SQLiteStore) Header(ctx context.Context, module string) ([]byte, error) {
	var header []byte
	err := s.db.QueryRowContext(ctx, `SELECT header FROM modules WHERE name = ?`, module).Scan(&header)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", module, err)
	}
	return header, nil
}

// Blob implements Store.
func (s *SQLiteStore) Blob(ctx context.Context, module string, id ir.UniqID) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE module = ? AND id = ?`,
		module, blobKey(id)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read blob %s of %s: %w", id, module, err)
	}
	return data, nil
}

// Modules implements Store.
func (s *SQLiteStore) Modules(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM modules ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list modules: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
