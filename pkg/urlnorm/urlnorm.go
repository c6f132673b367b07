// Package urlnorm canonicalizes URLs for equality checks against the remote
// bookmark index. Two URLs differing only in letter case or a trailing slash
// compare equal after normalization; query parameter order is deliberately
// left alone, so reordered queries will not match.
package urlnorm

import (
	"net/url"
	"strings"
)

// Normalize returns the canonical form of rawURL: the parsed URL
// re-serialized, with a single trailing slash stripped and every character
// lower-cased. Unparseable input is returned lower-cased unchanged, so
// callers always get a usable comparison key and never an error.
func Normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.ToLower(rawURL)
	}
	return strings.ToLower(strings.TrimSuffix(u.String(), "/"))
}
