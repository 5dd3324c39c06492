// Package paths provides home-directory expansion, the XDG-based
// configuration directory, and rejection of candidate paths that lie
// under platform-sensitive system directories.
//
// IsForbidden is the check itself; the init, link, unlink, clean and repair
// operations in this module do not call it, so they do not reject a path
// under a system directory.
package paths
