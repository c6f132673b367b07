package bookmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
)

type chromeNode struct {
	Type     string       `json:"type"`
	Name     string       `json:"name"`
	URL      string       `json:"url"`
	Children []chromeNode `json:"children"`
}

type chromeFile struct {
	Roots map[string]chromeNode `json:"roots"`
}

// ParseChrome reads a Chrome/Chromium Bookmarks file and flattens every
// root (bookmark bar, other, synced) depth-first, preserving the file's
// order within each root. Bookmarks sitting directly under a root carry no
// folder.
func ParseChrome(r io.Reader) ([]Entry, error) {
	var f chromeFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("parse bookmarks file: %w", err)
	}

	// Map iteration order is random; keep roots deterministic.
	names := make([]string, 0, len(f.Roots))
	for name := range f.Roots {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Entry
	for _, name := range names {
		root := f.Roots[name]
		// The root containers ("Bookmarks bar" etc.) are not user folders.
		for _, child := range root.Children {
			out = flattenChrome(child, "", out)
		}
	}
	return out, nil
}

func flattenChrome(n chromeNode, folder string, out []Entry) []Entry {
	switch n.Type {
	case "url":
		out = append(out, Entry{URL: n.URL, Title: n.Name, Folder: folder})
	case "folder":
		for _, child := range n.Children {
			out = flattenChrome(child, n.Name, out)
		}
	}
	return out
}

// ParseChromeFile parses the Bookmarks file at path.
func ParseChromeFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bookmarks file: %w", err)
	}
	defer f.Close()
	return ParseChrome(f)
}

// DefaultChromePath returns the platform's default Chrome Bookmarks file
// location for the primary profile.
func DefaultChromePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Google", "Chrome", "Default", "Bookmarks"), nil
	case "windows":
		return filepath.Join(home, "AppData", "Local", "Google", "Chrome", "User Data", "Default", "Bookmarks"), nil
	default:
		return filepath.Join(home, ".config", "google-chrome", "Default", "Bookmarks"), nil
	}
}
