package platform

// Tag identifies a build target, or the synthetic General tag for content
// shared by all of them.
type Tag string

// The closed set of recognised platform tags.
const (
	MacOS         Tag = "macOS"
	MacOSAsan     Tag = "macOS-asan"
	Windows       Tag = "Win"
	IOS           Tag = "iOS"
	IOSAsan       Tag = "iOS-asan"
	Android       Tag = "android"
	AndroidAsan   Tag = "android-asan"
	AndroidHwasan Tag = "android-hwasan"
	Ubuntu        Tag = "ubuntu"
	Wasm          Tag = "wasm"
	OHOS          Tag = "ohos"

	// General marks content common to every platform: a commit directory
	// whose _shared subdirectory is non-empty and which has no platform
	// subdirectories.
	General Tag = "general"
)

// known lists every recognised concrete platform tag, excluding General,
// which is synthetic and never appears as a requested or on-disk platform
// directory name.
var known = map[Tag]bool{
	MacOS: true, MacOSAsan: true, Windows: true, IOS: true, IOSAsan: true,
	Android: true, AndroidAsan: true, AndroidHwasan: true, Ubuntu: true,
	Wasm: true, OHOS: true,
}

// Valid reports whether t is one of the recognised concrete platform tags.
// General is deliberately excluded: it is never a valid requested or
// on-disk platform, only a classification outcome.
func Valid(t Tag) bool {
	return known[t]
}

// Parse validates a raw string against the known platform tags.
func Parse(s string) (Tag, bool) {
	t := Tag(s)
	return t, Valid(t)
}

// Set is an ordered collection of distinct platform tags.
type Set []Tag

// NewSet builds a Set from raw tags, deduplicating while preserving the
// first occurrence's order.
func NewSet(tags ...Tag) Set {
	seen := make(map[Tag]bool, len(tags))
	out := make(Set, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Contains reports whether t is a member of the set.
func (s Set) Contains(t Tag) bool {
	for _, m := range s {
		if m == t {
			return true
		}
	}
	return false
}

// Intersect returns the tags present in both s and other, in s's order.
func (s Set) Intersect(other Set) Set {
	var out Set
	for _, t := range s {
		if other.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// Minus returns the tags in s that are not present in other, in s's order.
func (s Set) Minus(other Set) Set {
	var out Set
	for _, t := range s {
		if !other.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// Strings returns the set as raw strings, in order.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = string(t)
	}
	return out
}
