//go:build windows

package linker

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/errs"
)

// createLink makes a directory junction via mklink /J. Junctions, unlike
// directory symlinks, require no elevated privilege on Windows.
func createLink(target, linkPath string) error {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	cmd := exec.Command("cmd", "/c", "mklink", "/J", linkPath, absTarget)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errs.Wrapf(errs.ErrTransaction, "mklink /J %s %s: %s: %w", linkPath, absTarget, out, err)
	}
	return nil
}

func isLinkMode(info os.FileInfo) bool {
	return info.Mode()&os.ModeSymlink != 0
}

func readLink(p string) (string, error) {
	return os.Readlink(p)
}
