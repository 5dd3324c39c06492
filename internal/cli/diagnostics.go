package cli

import (
	"context"
	"fmt"
)

// Represents the 'tanmidock diagnostics' command.
type DiagnosticsCmd struct{}

// Executes the diagnostics command: a read-only report of store size,
// reference counts, pending transactions, and lock state.
func (c *DiagnosticsCmd) Run(ctx context.Context) error {
	o, _, err := newOrchestrator()
	if err != nil {
		return err
	}

	d, err := o.Diagnose()
	if err != nil {
		return err
	}

	fmt.Printf("store root:           %s\n", d.StoreRoot)
	fmt.Printf("total bytes:          %d\n", d.TotalBytes)
	fmt.Printf("projects:             %d\n", d.ProjectCount)
	fmt.Printf("store entries:        %d\n", d.StoreEntryCount)
	fmt.Printf("unreferenced entries: %d (%d bytes)\n", d.UnreferencedEntries, d.UnreferencedBytes)
	if d.PendingTransaction != "" {
		fmt.Printf("pending transaction:  %s\n", d.PendingTransaction)
	}
	if d.LockHeldBy != 0 {
		fmt.Printf("lock held by pid:     %d\n", d.LockHeldBy)
	}
	return nil
}
