package registry

import digest "github.com/opencontainers/go-digest"

// pathHashLen is the number of hex digits a project hash carries: the
// first 48 bits of a SHA-256 digest are plenty to keep collisions
// astronomically unlikely across the handful of projects any one store
// root serves.
const pathHashLen = 12

// PathHash computes the stable project key for an absolute project path.
func PathHash(p string) string {
	d := digest.FromString(p)
	return d.Encoded()[:pathHashLen]
}
