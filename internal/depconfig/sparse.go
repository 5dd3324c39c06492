package depconfig

import "encoding/json"

// Sparse is a sparse-checkout filter. It is either a bare string shared by
// every platform (e.g. "${ALL_COMMON_SPARSE}"), or an object keyed by
// platform tag (plus an optional "common" key applying to every
// platform). A library whose sparse object carries only "common" and no
// platform key is classified as general.
type Sparse struct {
	// Simple holds the filter when the source JSON was a bare string.
	Simple string

	// ByPlatform holds the filter when the source JSON was an object,
	// keyed by platform tag or the literal "common".
	ByPlatform map[string]string
}

// commonKey is the object key applying to every platform.
const commonKey = "common"

// IsZero reports whether no sparse filter was declared at all.
func (s Sparse) IsZero() bool {
	return s.Simple == "" && s.ByPlatform == nil
}

// IsGeneral reports whether this sparse filter marks its library as
// general: an object carrying only the "common" key, with no concrete
// platform key alongside it.
func (s Sparse) IsGeneral() bool {
	if s.ByPlatform == nil {
		return false
	}
	if _, ok := s.ByPlatform[commonKey]; !ok {
		return false
	}
	return len(s.ByPlatform) == 1
}

// ForPlatform resolves the filter applicable to a concrete platform tag:
// the platform-specific entry if present, otherwise the "common" entry,
// otherwise the Simple string.
func (s Sparse) ForPlatform(platformTag string) (string, bool) {
	if s.ByPlatform != nil {
		if v, ok := s.ByPlatform[platformTag]; ok {
			return v, true
		}
		if v, ok := s.ByPlatform[commonKey]; ok {
			return v, true
		}
		return "", false
	}
	if s.Simple != "" {
		return s.Simple, true
	}
	return "", false
}

func (s *Sparse) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		s.Simple = asString
		s.ByPlatform = nil
		return nil
	}

	var asObject map[string]string
	if err := json.Unmarshal(data, &asObject); err != nil {
		return err
	}
	s.Simple = ""
	s.ByPlatform = asObject
	return nil
}

func (s Sparse) MarshalJSON() ([]byte, error) {
	if s.ByPlatform != nil {
		return json.Marshal(s.ByPlatform)
	}
	return json.Marshal(s.Simple)
}
