package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"catalogquery/domain"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS items (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT    NOT NULL UNIQUE,
	name         TEXT    NOT NULL,
	description  TEXT    NOT NULL DEFAULT '',
	price        REAL    NOT NULL,
	category     TEXT    NOT NULL DEFAULT '',
	in_stock     INTEGER NOT NULL DEFAULT 0,
	rating       REAL    NOT NULL DEFAULT 0,
	review_count INTEGER NOT NULL DEFAULT 0,
	tags         TEXT    NOT NULL DEFAULT '[]'
)`

const itemColumns = `id, name, description, price, category, in_stock, rating, review_count, tags`

// SQLiteStore is a domain.ItemStore backed by a SQLite database. Items are
// listed in insertion order.
//
// Revision also advances when another connection, possibly in another
// process, commits to the same database file.
type SQLiteStore struct {
	db  *sql.DB
	rev atomic.Uint64
	// last PRAGMA data_version seen on the store's connection
	dataVersion atomic.Int64
}

// compile-time assertion
var _ domain.ItemStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path. ":memory:" gives a
// private in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// one connection keeps ":memory:" databases shared and serialises writers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	s := &SQLiteStore{db: db}
	dv, err := s.readDataVersion()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("read data_version: %w", err)
	}
	s.dataVersion.Store(dv)
	return s, nil
}

func (s *SQLiteStore) readDataVersion() (int64, error) {
	var dv int64
	err := s.db.QueryRow(`PRAGMA data_version`).Scan(&dv)
	return dv, err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (domain.Item, error) {
	var (
		item    domain.Item
		inStock int
		tags    string
	)
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Price,
		&item.Category, &inStock, &item.Rating, &item.ReviewCount, &tags); err != nil {
		return domain.Item{}, err
	}
	item.InStock = inStock != 0
	if err := json.Unmarshal([]byte(tags), &item.Tags); err != nil {
		return domain.Item{}, fmt.Errorf("decode tags of %s: %w", item.ID, err)
	}
	if len(item.Tags) == 0 {
		item.Tags = nil
	}
	return item, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	return string(b), err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func insertItem(ctx context.Context, tx *sql.Tx, item domain.Item) error {
	var exists int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM items WHERE id = ?`, item.ID).Scan(&exists)
	switch {
	case err == nil:
		return domain.NewDuplicateItemError(item.ID)
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}
	tags, err := encodeTags(item.Tags)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Description, item.Price, item.Category,
		boolToInt(item.InStock), item.Rating, item.ReviewCount, tags)
	return err
}

func (s *SQLiteStore) Create(ctx context.Context, item domain.Item) error {
	if err := validateNew(item); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertItem(ctx, tx, item); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.rev.Add(1)
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, domain.NewItemNotFoundError(id)
	}
	return item, err
}

func (s *SQLiteStore) Update(ctx context.Context, id string, item domain.Item) error {
	if err := domain.ValidateItem(item); err != nil {
		return err
	}
	tags, err := encodeTags(item.Tags)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, price = ?, category = ?,
			in_stock = ?, rating = ?, review_count = ?, tags = ? WHERE id = ?`,
		item.Name, item.Description, item.Price, item.Category,
		boolToInt(item.InStock), item.Rating, item.ReviewCount, tags, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.NewItemNotFoundError(id)
	}
	s.rev.Add(1)
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.NewItemNotFoundError(id)
	}
	s.rev.Add(1)
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// BulkImport inserts the valid items in input order within one transaction.
// Invalid and duplicate items are skipped and reported.
func (s *SQLiteStore) BulkImport(ctx context.Context, items []domain.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	errs, err := validateBatch(ctx, items)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	inserted := 0
	for i, item := range items {
		if errs[i] != nil {
			continue
		}
		if err := insertItem(ctx, tx, item); err != nil {
			if !domain.IsDuplicateItemError(err) {
				return fmt.Errorf("id=%s: %w", item.ID, err)
			}
			errs[i] = fmt.Errorf("id=%s: %w", item.ID, err)
			continue
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	if inserted > 0 {
		s.rev.Add(1)
	}
	return errors.Join(errs...)
}

// Revision counts local writes plus commits observed from other connections.
// data_version does not change for the store's own writes.
func (s *SQLiteStore) Revision() uint64 {
	if dv, err := s.readDataVersion(); err == nil {
		if old := s.dataVersion.Swap(dv); old != dv {
			s.rev.Add(1)
		}
	}
	return s.rev.Load()
}
