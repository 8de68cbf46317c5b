package schema

import "github.com/afrugalpenguin/cosmos-mapper/internal/classify"

// EnumConfig gates the optional enum-detection pass described in
// SPEC_FULL.md §4.2.
type EnumConfig struct {
	Enabled         bool
	MaxUniqueValues int
	MinFrequency    float64
}

// DefaultEnumConfig returns the documented defaults for when enum detection
// is enabled: at most 10 distinct values, covering at least 80% of samples.
func DefaultEnumConfig() EnumConfig {
	return EnumConfig{Enabled: false, MaxUniqueValues: 10, MinFrequency: 0.8}
}

// Options configures one inference pass over a container's sampled
// documents.
type Options struct {
	CustomPatterns []classify.CustomPattern
	Enum           EnumConfig
}

// metadataKeys names document-store bookkeeping fields skipped during the
// walk, per SPEC_FULL.md §4.2.
var metadataKeys = map[string]struct{}{
	"_rid":         {},
	"_self":        {},
	"_etag":        {},
	"_ts":          {},
	"_attachments": {},
}

func isMetadataKey(key string) bool {
	_, ok := metadataKeys[key]
	return ok
}
