package typetree

import (
	"regexp"
	"strings"
)

var (
	qualifierPattern  = regexp.MustCompile(`[a-zA-Z0-9_:]+::`)
	arrayIndexPattern = regexp.MustCompile(`\[\d+\]`)
)

// Canonicalize drops template arguments and namespace qualifiers from a
// type or member name, so "std::vector<int>" becomes "vector".
func Canonicalize(raw string) string {
	if i := strings.IndexByte(raw, '<'); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(qualifierPattern.ReplaceAllString(raw, ""))
}

// dearrayName rewrites every "[N]" index to "[]".
func dearrayName(s string) string {
	return arrayIndexPattern.ReplaceAllString(s, "[]")
}
