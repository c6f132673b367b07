package bookmarks

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// ParseNetscape reads the Netscape bookmark file format that every major
// browser uses for HTML exports. Folder nesting resolves to the nearest
// enclosing folder title; document order is preserved.
func ParseNetscape(r io.Reader) ([]Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse bookmark export: %w", err)
	}

	var out []Entry
	var stack []string
	var pending string
	havePending := false

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				// A folder heading names the DL that follows it.
				pending = textContent(n)
				havePending = true
				return

			case "a":
				href := attr(n, "href")
				if href == "" {
					return
				}
				title := textContent(n)
				if title == "" {
					title = href
				}
				folder := ""
				if len(stack) > 0 {
					folder = stack[len(stack)-1]
				}
				out = append(out, Entry{URL: href, Title: title, Folder: folder})
				return

			case "dl":
				pushed := false
				if havePending {
					stack = append(stack, pending)
					havePending = false
					pushed = true
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				if pushed {
					stack = stack[:len(stack)-1]
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

// ParseNetscapeFile parses the export at path.
func ParseNetscapeFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bookmark export: %w", err)
	}
	defer f.Close()
	return ParseNetscape(f)
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(b.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
