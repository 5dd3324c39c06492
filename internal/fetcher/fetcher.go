package fetcher

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"

	"github.com/tanmika/tanmidock/internal/errs"
	"github.com/tanmika/tanmidock/internal/platform"
)

// Result is the outcome of one fetcher invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Fetcher wraps one external fetcher executable.
type Fetcher struct {
	binary string
}

// New binds a Fetcher to the executable at binary.
func New(binary string) *Fetcher {
	return &Fetcher{binary: binary}
}

// Probe verifies the fetcher executable is present and runnable. It must
// succeed before any download-issuing operation proceeds.
func (f *Fetcher) Probe(ctx context.Context) error {
	if _, err := exec.LookPath(f.binary); err != nil {
		return errs.Wrapf(errs.ErrFetcher, "fetcher %q not found: %w", f.binary, err)
	}
	return nil
}

// Version runs the fetcher's diagnostic version query.
func (f *Fetcher) Version(ctx context.Context) (string, error) {
	result, err := f.run(ctx, "version")
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

// Install runs the fetcher to populate target with the given commit's
// content, restricted to the requested platform tags, using
// configPath as the dependency configuration the fetcher itself consults
// for URL/sparse details. onProgress is called once per stdout line, in
// order, for callers that want to surface progress.
func (f *Fetcher) Install(ctx context.Context, target, configPath string, tags platform.Set, onProgress func(line string)) (Result, error) {
	args := []string{"install", "--target", target, "--config", configPath}
	for _, t := range tags {
		args = append(args, "--platform", string(t))
	}
	return f.runStreaming(ctx, onProgress, args...)
}

func (f *Fetcher) run(ctx context.Context, args ...string) (Result, error) {
	return f.runStreaming(ctx, nil, args...)
}

func (f *Fetcher) runStreaming(ctx context.Context, onProgress func(line string), args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, f.binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, errs.Wrap(errs.ErrFetcher, err)
	}

	if err := cmd.Start(); err != nil {
		return Result{}, errs.Wrapf(errs.ErrFetcher, "start %s: %w", f.binary, err)
	}

	var out bytes.Buffer
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		out.WriteString(line)
		out.WriteByte('\n')
		if onProgress != nil {
			onProgress(line)
		}
	}

	waitErr := cmd.Wait()

	result := Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   out.String(),
		Stderr:   stderr.String(),
	}

	if waitErr != nil {
		return result, errs.Wrapf(errs.ErrFetcher, "%s %v exited %d: %s", f.binary, args, result.ExitCode, result.Stderr)
	}
	return result, nil
}
