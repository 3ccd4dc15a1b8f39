// Package content runs page scripts against a GeolocationHost: it loads an
// HTML document, extracts its inline scripts and evaluates them in a sobek VM
// exposing navigator.geolocation.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrUnsupportedPage is returned for page references that can't be loaded locally.
var ErrUnsupportedPage = errors.New("unsupported page reference")

// Script is one inline <script> block.
type Script struct {
	Name   string // "<page>#<index>" for error messages
	Source string
}

// Page is a parsed document ready to run.
type Page struct {
	URL     string // document URL; empty for inline data
	Origin  string // security origin; empty for inline and data: documents
	Title   string
	Scripts []Script
	Skipped int // external or non-JavaScript scripts that were not loaded
}

// LoadOptions controls how a page reference is turned into a document.
type LoadOptions struct {
	// BaseURL, if set, is used as the document URL of a local file so it runs
	// with that URL's origin. Without it a file runs as inline data.
	BaseURL string
}

// Open loads a page from a data: URL or a local file path.
// Network URLs are rejected: geoprompt never fetches content.
func Open(ref string, opts LoadOptions) (*Page, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return ParseDataURL(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return nil, fmt.Errorf("%w: %s (save the page and pass --base-url)", ErrUnsupportedPage, ref)
	default:
		return LoadFile(ref, opts)
	}
}

// LoadFile reads an HTML file. It runs as inline data, like a browser's
// load-data-with-null-base-URL, unless opts.BaseURL is set.
func LoadFile(path string, opts LoadOptions) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return Parse(filepath.Base(path), bytes.NewReader(data), opts.BaseURL)
}

// ParseDataURL decodes a data: URL document. Its origin is always empty.
func ParseDataURL(raw string) (*Page, error) {
	du, err := dataurl.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	if ct := du.MediaType.ContentType(); ct != "text/html" && ct != "text/plain" {
		return nil, fmt.Errorf("%w: data url of type %s", ErrUnsupportedPage, ct)
	}
	return Parse("data", bytes.NewReader(du.Data), "")
}

// Parse reads an HTML document and extracts its inline scripts in document order.
func Parse(name string, r io.Reader, pageURL string) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &Page{
		URL:    pageURL,
		Origin: entity.OriginFromURL(pageURL),
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if page.Title == "" {
					page.Title = strings.TrimSpace(textContent(n))
				}
			case atom.Script:
				if !isInlineJavaScript(n) {
					page.Skipped++
					return
				}
				page.Scripts = append(page.Scripts, Script{
					Name:   fmt.Sprintf("%s#%d", name, len(page.Scripts)),
					Source: textContent(n),
				})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return page, nil
}

func isInlineJavaScript(n *html.Node) bool {
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "src":
			return false
		case "type":
			switch strings.ToLower(strings.TrimSpace(a.Val)) {
			case "", "text/javascript", "application/javascript":
			default:
				return false
			}
		}
	}
	return true
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
