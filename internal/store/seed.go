package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/demoapp/userapi/internal/model"
)

// Seed is the JSON snapshot format accepted at startup:
//
//	{"users": {"<id>": {...}}, "posts": {"<id>": {...}}}
//
// Map keys win over any id field inside the record body.
type Seed struct {
	Users map[string]model.User `json:"users"`
	Posts map[string]model.Post `json:"posts"`
}

// ReadSeedFile parses a seed snapshot from disk and normalises record
// ids to their map keys.
func ReadSeedFile(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("reading seed file: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	for id, u := range seed.Users {
		u.ID = id
		seed.Users[id] = u
	}
	for id, p := range seed.Posts {
		p.ID = id
		seed.Posts[id] = p
	}
	return seed, nil
}
