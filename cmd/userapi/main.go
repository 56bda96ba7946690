// userapi serves a small JSON directory of users and posts under /v1,
// backed by a configurable document store (in-memory, sqlite or neo4j).
package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/demoapp/userapi/internal/api"
	"github.com/demoapp/userapi/internal/auth"
	"github.com/demoapp/userapi/internal/config"
	"github.com/demoapp/userapi/internal/httpd"
	"github.com/demoapp/userapi/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		addr       = flag.String("addr", "", "HTTP listen address (overrides config)")
		seedFile   = flag.String("seed-file", "", "Path to JSON snapshot for initial state (overrides config)")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *seedFile != "" {
		cfg.SeedFile = *seedFile
	}
	if *verbose {
		cfg.Verbose = true
	}

	st, err := store.Open(store.Options{
		Backend: cfg.Store.Backend,
		Path:    cfg.Store.Path,
		Neo4j: store.Neo4jOptions{
			URI:      cfg.Store.Neo4j.URI,
			Username: cfg.Store.Neo4j.Username,
			Password: cfg.Store.Neo4j.Password,
			Database: cfg.Store.Neo4j.Database,
		},
	})
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	if cfg.SeedFile != "" {
		seed, err := store.ReadSeedFile(cfg.SeedFile)
		if err != nil {
			log.Fatalf("read seed file: %v", err)
		}
		if err := st.LoadSeed(context.Background(), seed); err != nil {
			log.Fatalf("load seed data: %v", err)
		}
	}

	srv := httpd.New(cfg.Addr, cfg.Verbose)

	var authmw func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		authmw = auth.Middleware(cfg.Auth.JWTSecret)
	}

	handler := api.NewHandler(st, srv.Logger, authmw)
	handler.Routes(srv.Router)

	srv.Logger.Info("configuration loaded",
		"config", cfg.String(),
		"seed_file", cfg.SeedFile,
	)

	if err := srv.Serve(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
