package client_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/demoapp/userapi/internal/api"
	"github.com/demoapp/userapi/internal/httpd"
	"github.com/demoapp/userapi/internal/model"
	"github.com/demoapp/userapi/internal/store"
	"github.com/demoapp/userapi/pkg/client"
)

func setup(t *testing.T) *client.Client {
	t.Helper()
	srv := httpd.New(":0", false)
	handler := api.NewHandler(store.NewMemory(), srv.Logger, nil)
	handler.Routes(srv.Router)
	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)
	return client.New(ts.URL)
}

func TestClientUserLifecycle(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	created, err := c.CreateUser(ctx, model.CreateUserInput{Email: "a@b.com", Name: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Email != "a@b.com" {
		t.Fatalf("unexpected created user: %+v", created)
	}

	got, err := c.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != *created {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, created)
	}

	name := "B"
	updated, err := c.UpdateUser(ctx, created.ID, model.UpdateUserInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "B" || updated.Email != "a@b.com" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	users, err := c.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %+v", users)
	}

	if err := c.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := c.DeleteUser(ctx, created.ID); !client.IsNotFound(err) {
		t.Fatalf("expected not-found on second delete, got %v", err)
	}
}

func TestClientGetUnknownIsNotFound(t *testing.T) {
	c := setup(t)

	_, err := c.GetUser(context.Background(), "doesnotexist")
	if !client.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
	apiErr, ok := err.(*client.APIError)
	if !ok || apiErr.Message != "Not found" {
		t.Fatalf("expected generic message, got %v", err)
	}
}

func TestClientSurfacesValidationFailure(t *testing.T) {
	c := setup(t)

	_, err := c.CreateUser(context.Background(), model.CreateUserInput{Email: "nope", Name: "A"})
	apiErr, ok := err.(*client.APIError)
	if !ok || apiErr.StatusCode != 400 {
		t.Fatalf("expected 400 APIError, got %v", err)
	}
}

func TestClientHealthAndPosts(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	if err := c.Health(ctx); err != nil {
		t.Fatalf("health: %v", err)
	}
	posts, err := c.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected no posts, got %+v", posts)
	}
}
