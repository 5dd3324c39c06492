package depconfig

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/errs"
)

// fileName is the dependency configuration's expected name; it is looked
// for under 3rdparty/ first, then at the project root.
const fileName = "codepac-dep.json"

// File is the parsed shape of a project's dependency declaration.
type File struct {
	Version string `json:"version"`
	Repos   struct {
		Common []Repo `json:"common"`
	} `json:"repos"`
	Actions struct {
		Common []Action `json:"common"`
	} `json:"actions"`
}

// Repo declares one dependency: a library name (Dir), a commit to pin to,
// and where to fetch it from.
type Repo struct {
	URL    string `json:"url"`
	Commit string `json:"commit"`
	Branch string `json:"branch"`
	Dir    string `json:"dir"`
	Sparse Sparse `json:"sparse,omitempty"`
}

// Action is an optional post-link command. Actions are parsed and kept in
// declaration order; nothing in this module runs them.
type Action struct {
	Command string `json:"command"`
}

// Locate finds the dependency configuration under projectDir, preferring
// 3rdparty/codepac-dep.json over a project-root copy.
func Locate(projectDir string) (string, error) {
	nested := filepath.Join(projectDir, "3rdparty", fileName)
	if _, err := os.Stat(nested); err == nil {
		return nested, nil
	}

	root := filepath.Join(projectDir, fileName)
	if _, err := os.Stat(root); err == nil {
		return root, nil
	}

	return "", errs.Wrapf(errs.ErrInput, "no %s found under %s (checked 3rdparty/ and project root)", fileName, projectDir)
}

// Load reads and validates the dependency configuration at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrInput, "read dependency configuration %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errs.Wrapf(errs.ErrInput, "parse dependency configuration %s: %w", path, err)
	}

	if err := f.validate(); err != nil {
		return nil, errs.Wrapf(errs.ErrInput, "%s: %w", path, err)
	}
	return &f, nil
}

func (f *File) validate() error {
	if f.Version == "" {
		return errors.New("missing required field \"version\"")
	}
	if f.Repos.Common == nil {
		return errors.New("missing or non-array required field \"repos.common\"")
	}
	return nil
}
