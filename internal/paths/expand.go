package paths

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Expand replaces a leading "~" with the operator's home directory.
// "~/foo" and a bare "~" both expand; any other leading text is returned
// unchanged. Separators are normalised to the host's convention.
func Expand(p string) string {
	switch {
	case p == "~":
		p = xdg.Home
	case strings.HasPrefix(p, "~/"), strings.HasPrefix(p, `~\`):
		p = filepath.Join(xdg.Home, p[2:])
	}
	return filepath.FromSlash(p)
}

// Contract replaces a leading home-directory prefix with "~", for display.
// p is returned unchanged if it does not lie under the home directory.
func Contract(p string) string {
	home := filepath.Clean(xdg.Home)
	clean := filepath.Clean(p)

	if clean == home {
		return "~"
	}

	rel, err := filepath.Rel(home, clean)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}

	return filepath.Join("~", rel)
}
