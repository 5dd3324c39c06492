// Package classify decides, for a single declared dependency, which of a
// small closed set of actions the link orchestrator must take: leave it
// alone, relink it, replace a local copy, absorb a local copy into the
// store, or download it (in full or in part).
package classify
