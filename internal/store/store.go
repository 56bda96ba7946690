// Package store defines the persistence boundary for the API and its
// backing implementations. Every backend exposes the same capability set
// {list, get, create, merge-update, delete}; which one runs is chosen by
// configuration at process start, never by the handlers.
package store

import (
	"context"

	"github.com/demoapp/userapi/internal/model"
)

// UserStore is the persistence contract for the users collection.
//
// Absence is not an error: Get and Update return (nil, nil) for an
// unknown id, and Delete returns false. Update performs a shallow merge
// of the supplied fields and never creates a record.
type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, in model.CreateUserInput) (model.User, error)
	Update(ctx context.Context, id string, in model.UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// PostStore is the persistence contract for the posts collection.
// Posts are read-only; they only enter the store through seed data.
type PostStore interface {
	List(ctx context.Context) ([]model.Post, error)
}

// Store aggregates the per-collection stores behind one handle with an
// explicit lifecycle: opened once at process start, closed at shutdown.
type Store interface {
	Users() UserStore
	Posts() PostStore

	// LoadSeed replaces or inserts the records in the snapshot.
	LoadSeed(ctx context.Context, seed Seed) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Collection names as they appear in the persisted layout.
const (
	collectionUsers = "users"
	collectionPosts = "posts"
)
