package cli

import (
	"context"
	"fmt"
)

// Represents the 'tanmidock repair' command.
type RepairCmd struct{}

// Executes the repair command: reconciles the registry against what is
// actually on disk.
func (c *RepairCmd) Run(ctx context.Context) error {
	o, _, err := newOrchestrator()
	if err != nil {
		return err
	}

	report, err := o.Repair()
	if err != nil {
		return err
	}

	for _, p := range report.VanishedProjects {
		fmt.Println("dropped vanished project", p)
	}
	for _, l := range report.BrokenLinks {
		fmt.Println("dropped broken link", l)
	}
	for _, k := range report.UnregisteredStore {
		fmt.Println("registered unregistered store entry", k)
	}
	return nil
}
