// Package linker creates and inspects the filesystem links a project's
// local dependency directories use to point at content-addressed store
// entries: a directory symlink on platforms with hard symbolic-link
// support, a junction on Windows (so that creating one never requires
// elevated privilege).
package linker
