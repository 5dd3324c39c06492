package cli

import (
	"context"
	"fmt"

	"github.com/tanmika/tanmidock/internal/config"
	"github.com/tanmika/tanmidock/internal/errs"
)

// Represents the 'tanmidock clean' command.
type CleanCmd struct {
	Strategy string   `help:"Eviction strategy: unreferenced, unused, capacity, or manual. Defaults to the configured strategy."`
	Key      []string `help:"lib:commit:platform key to evict (repeatable). Only meaningful with --strategy=manual."`
}

// Executes the clean command: evicts store entries under the selected (or
// configured) strategy.
func (c *CleanCmd) Run(ctx context.Context) error {
	o, cfg, err := newOrchestrator()
	if err != nil {
		return err
	}

	if c.Strategy != "" {
		strategy := config.CleanStrategy(c.Strategy)
		switch strategy {
		case config.StrategyUnreferenced, config.StrategyUnused, config.StrategyCapacity, config.StrategyManual:
		default:
			return errs.Wrapf(errs.ErrInput, "unrecognised clean strategy %q", c.Strategy)
		}
		cfg.CleanStrategy = strategy
	}
	if cfg.CleanStrategy == config.StrategyManual && len(c.Key) == 0 {
		return errs.Wrapf(errs.ErrInput, "--strategy=manual requires at least one --key")
	}

	report, err := o.Clean(c.Key)
	if err != nil {
		return err
	}

	for _, e := range report.Removed {
		fmt.Printf("removed %s:%s:%s (%d bytes)\n", e.Library, e.Commit, e.Platform, e.Size)
	}
	fmt.Printf("freed %d bytes across %d entries\n", report.Bytes, len(report.Removed))
	return nil
}
