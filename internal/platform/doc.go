// Package platform defines the closed set of build-target tags the store
// and registry key content by, plus the synthetic General tag used for
// platform-agnostic library content.
package platform
