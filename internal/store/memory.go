package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/demoapp/userapi/internal/model"
)

// MemoryStore keeps everything in process memory. State lasts for the
// process lifetime only, and separate instances see disjoint copies, so
// it is suitable for local and demo use.
type MemoryStore struct {
	users *collection[model.User]
	posts *collection[model.Post]
}

// NewMemory creates an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		users: newCollection[model.User](),
		posts: newCollection[model.Post](),
	}
}

func (s *MemoryStore) Users() UserStore { return &memoryUsers{c: s.users} }
func (s *MemoryStore) Posts() PostStore { return &memoryPosts{c: s.posts} }

func (s *MemoryStore) LoadSeed(_ context.Context, seed Seed) error {
	s.users.load(seed.Users)
	s.posts.load(seed.Posts)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

type memoryUsers struct {
	c *collection[model.User]
}

func (m *memoryUsers) List(context.Context) ([]model.User, error) {
	return m.c.list(), nil
}

func (m *memoryUsers) Get(_ context.Context, id string) (*model.User, error) {
	u, ok := m.c.get(id)
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memoryUsers) Create(_ context.Context, in model.CreateUserInput) (model.User, error) {
	u := model.User{
		ID:    uuid.NewString(),
		Email: in.Email,
		Name:  in.Name,
	}
	m.c.set(u.ID, u)
	return u, nil
}

func (m *memoryUsers) Update(_ context.Context, id string, in model.UpdateUserInput) (*model.User, error) {
	u, ok := m.c.update(id, in.Apply)
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memoryUsers) Delete(_ context.Context, id string) (bool, error) {
	return m.c.delete(id), nil
}

type memoryPosts struct {
	c *collection[model.Post]
}

func (m *memoryPosts) List(context.Context) ([]model.Post, error) {
	return m.c.list(), nil
}
