package metrics

import (
	"regexp"
	"strings"
)

// IDPlaceholder replaces variable path segments in endpoint labels.
const IDPlaceholder = "{id}"

var (
	numericSegment = regexp.MustCompile(`^[0-9]+$`)
	uuidSegment    = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// Normalize maps a concrete request path to a low-cardinality endpoint
// template. Numeric and UUID path segments become IDPlaceholder; every
// other segment passes through unchanged, case included. Query strings
// are stripped and trailing slashes trimmed.
//
// Normalize is pure and idempotent: Normalize(Normalize(p)) == Normalize(p)
// for all p. Using it for every endpoint label keeps the set of label
// combinations per metric bounded regardless of traffic.
func Normalize(rawPath string) string {
	if i := strings.IndexByte(rawPath, '?'); i >= 0 {
		rawPath = rawPath[:i]
	}
	if rawPath == "" || rawPath == "/" {
		return rawPath
	}

	rawPath = strings.TrimRight(rawPath, "/")
	if rawPath == "" {
		return "/"
	}

	segments := strings.Split(rawPath, "/")
	for i, seg := range segments {
		if numericSegment.MatchString(seg) || uuidSegment.MatchString(seg) {
			segments[i] = IDPlaceholder
		}
	}

	path := strings.Join(segments, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
