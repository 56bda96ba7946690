package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/demoapp/userapi/internal/model"
)

// SqliteStore persists every collection as JSON documents in a single
// SQLite database:
//
//	documents(collection, key, data)  PRIMARY KEY (collection, key)
type SqliteStore struct {
	db *sql.DB
}

// NewSqlite opens (or creates) the database at path and ensures the
// documents table exists.
func NewSqlite(path string) (*SqliteStore, error) {
	if path == "" {
		path = "userapi.db"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	// journal_mode may be unsupported in some contexts (e.g. in-memory).
	_, _ = db.Exec(`PRAGMA journal_mode=WAL`)
	if _, err := db.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		key TEXT NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (collection, key)
	)`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Users() UserStore { return &sqliteUsers{s} }
func (s *SqliteStore) Posts() PostStore { return &sqlitePosts{s} }

func (s *SqliteStore) LoadSeed(ctx context.Context, seed Seed) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for id, u := range seed.Users {
		u.ID = id
		if err := putTx(ctx, tx, collectionUsers, id, u); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	for id, p := range seed.Posts {
		p.ID = id
		if err := putTx(ctx, tx, collectionPosts, id, p); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *SqliteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SqliteStore) Close() error { return s.db.Close() }

func putTx(ctx context.Context, tx *sql.Tx, collection, key string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (collection, key, data) VALUES (?, ?, ?)
		 ON CONFLICT (collection, key) DO UPDATE SET data = excluded.data`,
		collection, key, string(data))
	return err
}

// listDocs invokes scan with the raw JSON of every document in a
// collection, in insertion (rowid) order.
func (s *SqliteStore) listDocs(ctx context.Context, collection string, scan func(raw []byte) error) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM documents WHERE collection = ? ORDER BY rowid`, collection)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		if err := scan([]byte(raw)); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *SqliteStore) getDoc(ctx context.Context, collection, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND key = ?`,
		collection, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(raw), nil
}

type sqliteUsers struct {
	s *SqliteStore
}

func (r *sqliteUsers) List(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := r.s.listDocs(ctx, collectionUsers, func(raw []byte) error {
		var u model.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return fmt.Errorf("decode user document: %w", err)
		}
		out = append(out, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sqliteUsers) Get(ctx context.Context, id string) (*model.User, error) {
	raw, err := r.s.getDoc(ctx, collectionUsers, id)
	if err != nil || raw == nil {
		return nil, err
	}
	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user document: %w", err)
	}
	return &u, nil
}

func (r *sqliteUsers) Create(ctx context.Context, in model.CreateUserInput) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u := model.User{
		ID:    uuid.NewString(),
		Email: in.Email,
		Name:  in.Name,
	}
	data, err := json.Marshal(u)
	if err != nil {
		return model.User{}, err
	}
	_, err = r.s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, key, data) VALUES (?, ?, ?)`,
		collectionUsers, u.ID, string(data))
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Update merges the supplied fields inside a transaction so the
// read-modify-write cannot interleave with another writer on the same
// connection pool.
func (r *sqliteUsers) Update(ctx context.Context, id string, in model.UpdateUserInput) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND key = ?`,
		collectionUsers, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode user document: %w", err)
	}
	u = in.Apply(u)

	data, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET data = ? WHERE collection = ? AND key = ?`,
		string(data), collectionUsers, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqliteUsers) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND key = ?`,
		collectionUsers, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type sqlitePosts struct {
	s *SqliteStore
}

func (r *sqlitePosts) List(ctx context.Context) ([]model.Post, error) {
	var out []model.Post
	err := r.s.listDocs(ctx, collectionPosts, func(raw []byte) error {
		var p model.Post
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("decode post document: %w", err)
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
