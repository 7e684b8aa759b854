package cli

import (
	"fmt"

	"github.com/existflow/timelog/internal/catalog"
	"github.com/existflow/timelog/internal/config"
	"github.com/existflow/timelog/internal/jira"
	"github.com/existflow/timelog/internal/logger"
	"github.com/existflow/timelog/internal/secret"
	"github.com/existflow/timelog/internal/store"
	"github.com/existflow/timelog/internal/timer"
)

// app bundles the explicitly constructed collaborators every command needs.
// Nothing here is a package global; commands open and close their own set.
type app struct {
	cfg     *config.Config
	store   *store.Store
	catalog *catalog.Cache
	engine  *timer.Engine
}

// openApp wires store, catalog and engine from the loaded config
func openApp(cfg *config.Config) (*app, error) {
	seedPath, err := secret.DefaultSeedPath()
	if err != nil {
		return nil, err
	}
	keys, err := secret.Open(seedPath)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Database, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	client := jira.NewClient(st, cfg.Jira.Timeout)
	cat := catalog.New(client, cfg.Catalog.TTL)
	engine := timer.New(st, cat)

	return &app{cfg: cfg, store: st, catalog: cat, engine: engine}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("Failed to close store", logger.F("error", err))
	}
}
