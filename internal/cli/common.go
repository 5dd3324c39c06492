package cli

import (
	"fmt"

	"github.com/tanmika/tanmidock/internal/config"
	"github.com/tanmika/tanmidock/internal/fetcher"
	"github.com/tanmika/tanmidock/internal/orchestrator"
	"github.com/tanmika/tanmidock/internal/paths"
)

// newOrchestrator loads the persisted configuration and wires an
// Orchestrator against it. Every command but Init shares this path; Init
// writes the configuration these other commands then load.
func newOrchestrator() (*orchestrator.Orchestrator, *config.Config, error) {
	cfg, err := config.Load(paths.ConfigFile())
	if err != nil {
		return nil, nil, fmt.Errorf("%w (run 'tanmidock init' first)", err)
	}

	fetch := fetcher.New(cfg.ResolveFetcherBinary())
	return orchestrator.New(cfg, paths.RegistryFile(), fetch), cfg, nil
}
