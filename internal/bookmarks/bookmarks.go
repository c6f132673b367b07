// Package bookmarks reads native browser bookmark exports (the Chrome
// Bookmarks JSON file and the Netscape HTML export format) and flattens
// their folder trees into importable entries.
package bookmarks

import "strings"

// Entry is one bookmark lifted out of a native store, with the title of
// its nearest enclosing folder.
type Entry struct {
	URL    string
	Title  string
	Folder string
}

// Category derives the service-side category from the enclosing folder
// title. Unfiled bookmarks land in "other".
func (e Entry) Category() string {
	folder := strings.TrimSpace(e.Folder)
	if folder == "" {
		return "other"
	}
	return strings.ToLower(folder)
}
