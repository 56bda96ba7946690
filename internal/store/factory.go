package store

import "fmt"

// Options selects and configures a backing store.
type Options struct {
	// Backend is one of "memory" (default), "sqlite", "neo4j".
	Backend string

	// Path is the database file for the sqlite backend.
	Path string

	// Neo4j carries connection settings for the neo4j backend.
	Neo4j Neo4jOptions
}

// Open creates the Store named by opts.Backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "memory", "":
		return NewMemory(), nil
	case "sqlite":
		return NewSqlite(opts.Path)
	case "neo4j":
		return NewNeo4j(opts.Neo4j)
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: memory, sqlite, neo4j)", opts.Backend)
	}
}
