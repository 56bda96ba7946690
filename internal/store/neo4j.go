package store

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"

	"github.com/demoapp/userapi/internal/model"
)

// Node labels backing each collection.
const (
	labelUser = "User"
	labelPost = "Post"
)

// cypherRunner executes a Cypher query and returns a fully-buffered
// result. Abstracted so the store can be exercised against a fake in
// tests without a live server.
type cypherRunner interface {
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
}

// Neo4jStore is the remote document-store backend. Every operation is an
// independent network round trip against the database; there are no
// transactions spanning operations and no conflict detection, so a
// concurrent update and delete race with last-writer-wins semantics.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
	runner cypherRunner
}

// Neo4jOptions carries the connection settings for the remote store.
type Neo4jOptions struct {
	URI      string
	Username string
	Password string
	Database string
}

// NewNeo4j connects a Neo4jStore. The connection is verified lazily via
// Ping, not here, so startup does not block on an unreachable server.
func NewNeo4j(opts Neo4jOptions) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(opts.URI, neo4j.BasicAuth(opts.Username, opts.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	return &Neo4jStore{
		driver: driver,
		runner: &neo4jRunner{driver: driver, database: opts.Database},
	}, nil
}

type neo4jRunner struct {
	driver   neo4j.DriverWithContext
	database string
}

func (r *neo4jRunner) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, r.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(r.database),
	)
	if err != nil {
		return nil, fmt.Errorf("execute neo4j query: %w", err)
	}
	return result, nil
}

func (s *Neo4jStore) Users() UserStore { return &neo4jUsers{runner: s.runner} }
func (s *Neo4jStore) Posts() PostStore { return &neo4jPosts{runner: s.runner} }

func (s *Neo4jStore) LoadSeed(ctx context.Context, seed Seed) error {
	for id, u := range seed.Users {
		props := map[string]any{
			"n.email": u.Email,
			"n.name":  u.Name,
		}
		if err := mergeNode(ctx, s.runner, labelUser, id, props); err != nil {
			return err
		}
	}
	for id, p := range seed.Posts {
		props := map[string]any{
			"n.userId": p.UserID,
			"n.title":  p.Title,
			"n.body":   p.Body,
		}
		if err := mergeNode(ctx, s.runner, labelPost, id, props); err != nil {
			return err
		}
	}
	return nil
}

func (s *Neo4jStore) Ping(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.VerifyConnectivity(ctx)
}

func (s *Neo4jStore) Close() error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Close(context.Background())
}

// mergeNode upserts a node by id and sets the remaining properties.
func mergeNode(ctx context.Context, runner cypherRunner, label, id string, setProps map[string]any) error {
	query, params, err := gocypher.NewQueryBuilder().
		Merge(gocypher.N("n", label).WithProperties(map[string]any{"id": id})).
		Set(setProps).
		Return("n").
		Build()
	if err != nil {
		return err
	}
	_, err = runner.Run(ctx, query, params)
	return err
}

// nodeFromRecord extracts the "n" node from a result record.
func nodeFromRecord(record *neo4j.Record) (neo4j.Node, error) {
	value, ok := record.Get("n")
	if !ok {
		return neo4j.Node{}, fmt.Errorf("query result is missing return value 'n'")
	}
	node, ok := value.(neo4j.Node)
	if !ok {
		return neo4j.Node{}, fmt.Errorf("return value 'n' is not a node")
	}
	return node, nil
}

func propString(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

func userFromNode(node neo4j.Node) model.User {
	return model.User{
		ID:    propString(node.Props, "id"),
		Email: propString(node.Props, "email"),
		Name:  propString(node.Props, "name"),
	}
}

func postFromNode(node neo4j.Node) model.Post {
	return model.Post{
		ID:     propString(node.Props, "id"),
		UserID: propString(node.Props, "userId"),
		Title:  propString(node.Props, "title"),
		Body:   propString(node.Props, "body"),
	}
}

type neo4jUsers struct {
	runner cypherRunner
}

func (r *neo4jUsers) List(ctx context.Context) ([]model.User, error) {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", labelUser)).
		Return("n").
		Build()
	if err != nil {
		return nil, err
	}
	result, err := r.runner.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(result.Records))
	for _, record := range result.Records {
		node, err := nodeFromRecord(record)
		if err != nil {
			return nil, err
		}
		users = append(users, userFromNode(node))
	}
	return users, nil
}

func (r *neo4jUsers) Get(ctx context.Context, id string) (*model.User, error) {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", labelUser).WithProperties(map[string]any{"id": id})).
		Return("n").
		Build()
	if err != nil {
		return nil, err
	}
	result, err := r.runner.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, nil
	}
	node, err := nodeFromRecord(result.Records[0])
	if err != nil {
		return nil, err
	}
	u := userFromNode(node)
	return &u, nil
}

// Create lets the database assign the document id via its built-in
// randomUUID(), keeping id generation on the store side for the remote
// backend.
func (r *neo4jUsers) Create(ctx context.Context, in model.CreateUserInput) (model.User, error) {
	const query = `CREATE (n:User {id: randomUUID(), email: $email, name: $name}) RETURN n`
	result, err := r.runner.Run(ctx, query, map[string]any{
		"email": in.Email,
		"name":  in.Name,
	})
	if err != nil {
		return model.User{}, err
	}
	if len(result.Records) == 0 {
		return model.User{}, fmt.Errorf("create returned no record")
	}
	node, err := nodeFromRecord(result.Records[0])
	if err != nil {
		return model.User{}, err
	}
	return userFromNode(node), nil
}

func (r *neo4jUsers) Update(ctx context.Context, id string, in model.UpdateUserInput) (*model.User, error) {
	if in.IsEmpty() {
		// Nothing to merge; an existence check is all that is left.
		return r.Get(ctx, id)
	}

	setProps := make(map[string]any)
	if in.Email != nil {
		setProps["n.email"] = *in.Email
	}
	if in.Name != nil {
		setProps["n.name"] = *in.Name
	}

	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", labelUser).WithProperties(map[string]any{"id": id})).
		Set(setProps).
		Return("n").
		Build()
	if err != nil {
		return nil, err
	}
	result, err := r.runner.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, nil
	}
	node, err := nodeFromRecord(result.Records[0])
	if err != nil {
		return nil, err
	}
	u := userFromNode(node)
	return &u, nil
}

// Delete checks existence first, then removes the node in a second
// round trip. The window between the two is unguarded, which matches
// the store's no-conflict-detection contract.
func (r *neo4jUsers) Delete(ctx context.Context, id string) (bool, error) {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", labelUser).WithProperties(map[string]any{"id": id})).
		DetachDelete("n").
		Build()
	if err != nil {
		return false, err
	}
	if _, err := r.runner.Run(ctx, query, params); err != nil {
		return false, err
	}
	return true, nil
}

type neo4jPosts struct {
	runner cypherRunner
}

func (r *neo4jPosts) List(ctx context.Context) ([]model.Post, error) {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", labelPost)).
		Return("n").
		Build()
	if err != nil {
		return nil, err
	}
	result, err := r.runner.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	posts := make([]model.Post, 0, len(result.Records))
	for _, record := range result.Records {
		node, err := nodeFromRecord(record)
		if err != nil {
			return nil, err
		}
		posts = append(posts, postFromNode(node))
	}
	return posts, nil
}
