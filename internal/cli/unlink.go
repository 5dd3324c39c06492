package cli

import (
	"context"
	"fmt"
)

// Represents the 'tanmidock unlink' command.
type UnlinkCmd struct {
	ProjectDir string `arg:"" optional:"" default:"." help:"Project directory to unlink." type:"path"`
}

// Executes the unlink command: restores every dependency currently linked
// from the store back to an ordinary directory, and drops the project's
// registry record.
func (c *UnlinkCmd) Run(ctx context.Context) error {
	o, _, err := newOrchestrator()
	if err != nil {
		return err
	}

	report, err := o.Unlink(c.ProjectDir)
	if err != nil {
		return err
	}

	for _, path := range report.Restored {
		fmt.Println("restored", path)
	}
	return nil
}
