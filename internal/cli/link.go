package cli

import (
	"context"
	"fmt"

	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/platform"
)

// Represents the 'tanmidock link' command.
type LinkCmd struct {
	ProjectDir string   `arg:"" optional:"" default:"." help:"Project directory holding a codepac-dep.json." type:"path"`
	Platform   []string `short:"p" help:"Platform to link (repeatable). Defaults to the project's previously remembered platforms."`
}

// Executes the link command: resolves the project's declared dependencies
// against the store, downloading and linking whatever isn't already
// satisfied.
func (c *LinkCmd) Run(ctx context.Context) error {
	requested, err := parsePlatforms(c.Platform)
	if err != nil {
		return err
	}

	o, _, err := newOrchestrator()
	if err != nil {
		return err
	}

	report, err := o.Link(ctx, c.ProjectDir, requested)
	if err != nil {
		return err
	}

	for _, out := range report.Outcomes {
		fmt.Printf("%-30s %-10s %-8s linked=%v skipped=%v\n", out.Library, out.Commit, out.Status, out.Linked.Strings(), out.Skipped.Strings())
	}
	return nil
}

// parsePlatforms validates raw tags against the closed platform set.
func parsePlatforms(raw []string) (platform.Set, error) {
	var tags []platform.Tag
	for _, s := range raw {
		t, ok := platform.Parse(s)
		if !ok {
			return nil, errs.Wrapf(errs.ErrInput, "unrecognised platform %q", s)
		}
		tags = append(tags, t)
	}
	return platform.NewSet(tags...), nil
}
