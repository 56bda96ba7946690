package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/demoapp/userapi/internal/model"
)

// openBackends returns a fresh store per backend that can run without
// external services. The neo4j backend is covered separately against a
// fake runner in neo4j_test.go.
func openBackends(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSqlite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func mustCreate(t *testing.T, s Store, email, name string) model.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), model.CreateUserInput{Email: email, Name: name})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return u
}

func TestUserStoreCreateAssignsUniqueIDs(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			seen := make(map[string]bool)
			for i := 0; i < 10; i++ {
				u := mustCreate(t, s, "a@b.com", "A")
				if u.ID == "" {
					t.Fatal("expected non-empty id")
				}
				if seen[u.ID] {
					t.Fatalf("duplicate id %s", u.ID)
				}
				seen[u.ID] = true
			}
		})
	}
}

func TestUserStoreRoundTrip(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created := mustCreate(t, s, "a@b.com", "A")

			got, err := s.Users().Get(ctx, created.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got == nil || *got != created {
				t.Fatalf("round trip mismatch: created %+v, got %+v", created, got)
			}
		})
	}
}

func TestUserStoreGetUnknownIsNotAnError(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Users().Get(context.Background(), "doesnotexist")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got != nil {
				t.Fatalf("expected nil, got %+v", got)
			}
		})
	}
}

func TestUserStoreList(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			list, err := s.Users().List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != 0 {
				t.Fatalf("expected empty list, got %d", len(list))
			}

			first := mustCreate(t, s, "a@b.com", "A")
			second := mustCreate(t, s, "b@c.com", "B")

			list, err = s.Users().List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != 2 {
				t.Fatalf("expected 2 users, got %d", len(list))
			}
			if list[0] != first || list[1] != second {
				t.Fatalf("unexpected listing order: %+v", list)
			}
		})
	}
}

func TestUserStoreUpdateMergesSuppliedFields(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created := mustCreate(t, s, "a@b.com", "A")

			newName := "B"
			updated, err := s.Users().Update(ctx, created.ID, model.UpdateUserInput{Name: &newName})
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if updated == nil {
				t.Fatal("expected updated record")
			}
			if updated.Name != "B" || updated.Email != "a@b.com" || updated.ID != created.ID {
				t.Fatalf("unexpected merge result: %+v", updated)
			}

			// The merge must be persisted, not just echoed back.
			got, err := s.Users().Get(ctx, created.ID)
			if err != nil || got == nil {
				t.Fatalf("get after update: %v %+v", err, got)
			}
			if *got != *updated {
				t.Fatalf("persisted record mismatch: %+v vs %+v", got, updated)
			}
		})
	}
}

func TestUserStoreUpdateEmptyPatchIsANoop(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			created := mustCreate(t, s, "a@b.com", "A")

			updated, err := s.Users().Update(context.Background(), created.ID, model.UpdateUserInput{})
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if updated == nil || *updated != created {
				t.Fatalf("empty patch changed record: %+v", updated)
			}
		})
	}
}

func TestUserStoreUpdateUnknownNeverCreates(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			newName := "B"

			updated, err := s.Users().Update(ctx, "doesnotexist", model.UpdateUserInput{Name: &newName})
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if updated != nil {
				t.Fatalf("expected nil for unknown id, got %+v", updated)
			}

			list, err := s.Users().List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != 0 {
				t.Fatalf("update created a record: %+v", list)
			}
		})
	}
}

func TestUserStoreDeleteReportsExistence(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created := mustCreate(t, s, "a@b.com", "A")

			ok, err := s.Users().Delete(ctx, created.ID)
			if err != nil {
				t.Fatalf("delete: %v", err)
			}
			if !ok {
				t.Fatal("expected first delete to report true")
			}

			ok, err = s.Users().Delete(ctx, created.ID)
			if err != nil {
				t.Fatalf("second delete: %v", err)
			}
			if ok {
				t.Fatal("expected second delete to report false")
			}

			got, err := s.Users().Get(ctx, created.ID)
			if err != nil || got != nil {
				t.Fatalf("expected record gone, got %v %+v", err, got)
			}
		})
	}
}

func TestStoreLoadSeed(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seed := Seed{
				Users: map[string]model.User{
					"u1": {ID: "u1", Email: "a@b.com", Name: "A"},
				},
				Posts: map[string]model.Post{
					"p1": {ID: "p1", UserID: "u1", Title: "hello", Body: "world"},
				},
			}
			if err := s.LoadSeed(ctx, seed); err != nil {
				t.Fatalf("load seed: %v", err)
			}

			u, err := s.Users().Get(ctx, "u1")
			if err != nil || u == nil || u.Email != "a@b.com" {
				t.Fatalf("seeded user missing: %v %+v", err, u)
			}

			posts, err := s.Posts().List(ctx)
			if err != nil {
				t.Fatalf("list posts: %v", err)
			}
			if len(posts) != 1 || posts[0].Title != "hello" {
				t.Fatalf("seeded post missing: %+v", posts)
			}
		})
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	s, err := Open(Options{Backend: "memory"})
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("expected MemoryStore, got %T", s)
	}

	s, err = Open(Options{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "open.db")})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, ok := s.(*SqliteStore); !ok {
		t.Fatalf("expected SqliteStore, got %T", s)
	}
	_ = s.Close()

	if _, err := Open(Options{Backend: "bogus"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestReadSeedFileNormalisesIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	data := `{"users": {"u1": {"email": "a@b.com", "name": "A"}}, "posts": {}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	seed, err := ReadSeedFile(path)
	if err != nil {
		t.Fatalf("read seed: %v", err)
	}
	if seed.Users["u1"].ID != "u1" {
		t.Fatalf("expected map key as id, got %+v", seed.Users["u1"])
	}
}
