package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/tanmika/tanmidock/internal/config"
	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/paths"
)

// Represents the 'tanmidock init' command.
type InitCmd struct {
	StorePath string `arg:"" help:"Directory to use as the store root." type:"path"`
	Force     bool   `help:"Overwrite an existing config.json."`
}

// Executes the init command: writes a fresh config.json at the
// configured location, refusing to overwrite an existing one unless
// Force is set.
func (c *InitCmd) Run(ctx context.Context) error {
	configPath := paths.ConfigFile()

	if _, err := os.Stat(configPath); err == nil && !c.Force {
		return errs.Wrapf(errs.ErrInput, "%s already exists, pass --force to overwrite", configPath)
	} else if err != nil && !os.IsNotExist(err) {
		return err
	}

	cfg := config.Default(c.StorePath)
	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	fmt.Printf("wrote %s (store root %s)\n", configPath, c.StorePath)
	return nil
}
