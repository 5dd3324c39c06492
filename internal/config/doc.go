// Package config loads and saves the store root's config.json: store
// path, eviction strategy, concurrency limit, logging level, and the
// other operator-tunable options that are not part of any one project's
// dependency declaration.
package config
