package paths

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tanmika/tanmidock/internal/errs"
)

// forbiddenUnix lists system directories no store or project path may lie
// under, on POSIX hosts.
var forbiddenUnix = []string{
	"/etc", "/usr", "/bin", "/sbin", "/var", "/tmp", "/root", "/System",
}

// forbiddenWindows lists system directories no store or project path may
// lie under, on Windows hosts.
var forbiddenWindows = []string{
	`C:\Windows`, `C:\Program Files`, `C:\Program Files (x86)`, `C:\ProgramData`,
}

// caseInsensitiveOS reports whether the host's filesystem is typically
// case-insensitive, so forbidden-path comparison should fold case.
func caseInsensitiveOS() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}

// IsForbidden reports whether p is, or resolves (after cleaning any ".."
// traversal) under, a platform-sensitive system directory.
//
// p need not exist; the check is purely lexical over the cleaned absolute
// form, so a traversal like "/etc/../etc/passwd" is caught even though no
// symlink is ever followed.
func IsForbidden(p string) (bool, error) {
	abs, err := filepath.Abs(filepath.Clean(Expand(p)))
	if err != nil {
		return false, errs.Wrapf(errs.ErrPathSafety, "resolve %q: %w", p, err)
	}

	list := forbiddenUnix
	if runtime.GOOS == "windows" {
		list = forbiddenWindows
	}

	for _, root := range list {
		if underRoot(abs, root, caseInsensitiveOS()) {
			return true, nil
		}
	}
	return false, nil
}

// underRoot reports whether path equals root or lies under it.
func underRoot(path, root string, foldCase bool) bool {
	cleanRoot := filepath.Clean(root)

	if foldCase {
		path = strings.ToLower(path)
		cleanRoot = strings.ToLower(cleanRoot)
	}

	if path == cleanRoot {
		return true
	}

	sep := string(filepath.Separator)
	return strings.HasPrefix(path, cleanRoot+sep)
}
