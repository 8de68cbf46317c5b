package classify

import "regexp"

// Built-in string patterns, checked in this exact order by classifyString.
// Mirrors the teacher's own style of initializing a table of named regexes
// once at package load (internal/detection/detector.go's
// initializeRegexPatterns), rather than compiling on every call.
var (
	guidPattern  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?)?$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlPattern   = regexp.MustCompile(`(?i)^https?://\S+$`)

	// Four recognised phone shapes, tried in order.
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\+\d{1,3}[\d\s-]{6,}$`),          // +1 415-555-0100
		regexp.MustCompile(`^\(\d{3}\)\s?\d{3}-\d{4}$`),       // (415) 555-0100
		regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`),             // 415-555-0100
		regexp.MustCompile(`^0\d{2,4}\s?\d{3,4}\s?\d{3,4}$`),  // 020 7946 0958
	}
)

// CustomPattern pairs a configured regex with the tag it produces when a
// string matches. Patterns are tried in configuration order, after the
// built-in shapes above and before the "string" fallback.
type CustomPattern struct {
	Tag     string
	Pattern *regexp.Regexp
}

// CompileCustomPatterns compiles each (tag, regex) pair, silently skipping
// any entry whose regex fails to compile — invalid custom patterns are
// dropped rather than failing the run, per the classifier's "no exception
// path" guarantee.
func CompileCustomPatterns(configs map[string]string, order []string) []CustomPattern {
	out := make([]CustomPattern, 0, len(order))
	for _, tag := range order {
		raw, ok := configs[tag]
		if !ok {
			continue
		}
		re, err := regexp.Compile(raw)
		if err != nil {
			continue
		}
		out = append(out, CustomPattern{Tag: tag, Pattern: re})
	}
	return out
}
