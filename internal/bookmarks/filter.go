package bookmarks

import (
	"strings"

	"github.com/samber/lo"

	"github.com/fuze/cli/pkg/api"
)

// internalSchemes are browser-internal URL schemes that have no meaning
// outside the browser and must never reach the service.
var internalSchemes = []string{
	"chrome:",
	"chrome-extension:",
	"about:",
	"edge:",
	"moz-extension:",
}

// Internal reports whether rawURL points inside the browser itself.
func Internal(rawURL string) bool {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	return lo.SomeBy(internalSchemes, func(scheme string) bool {
		return strings.HasPrefix(lower, scheme)
	})
}

// Importable drops internal and empty URLs and shapes the rest into the
// bulk import payload, preserving order.
func Importable(entries []Entry) []api.ImportItem {
	kept := lo.Filter(entries, func(e Entry, _ int) bool {
		return e.URL != "" && !Internal(e.URL)
	})
	return lo.Map(kept, func(e Entry, _ int) api.ImportItem {
		return api.ImportItem{URL: e.URL, Title: e.Title, Category: e.Category()}
	})
}
