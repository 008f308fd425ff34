// Package normalize turns raw filing content into clean, consistently
// structured text: an HTML-stripping stage followed by an ordered pipeline of
// header rewrite rules.
package normalize

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// StripHTML extracts visible text from raw HTML. It works on the body
// element (or the whole document when no body exists), removes script and
// style elements, elements hidden with display:none, and every element whose
// tag name carries an XBRL or inline-XBRL namespace prefix. Text blocks are
// newline-separated and trimmed.
func StripHTML(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	root.Find("script, style").Remove()

	root.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		compact := strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(compact, "display:none") {
			sel.Remove()
		}
	})

	root.Find("*").Each(func(_ int, sel *goquery.Selection) {
		name := goquery.NodeName(sel)
		if strings.HasPrefix(name, "xbrl") || strings.HasPrefix(name, "ix") {
			sel.Remove()
		}
	})

	var parts []string
	for _, n := range root.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, "\n"), nil
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			*parts = append(*parts, text)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// ExtractTextGeneric is the tag-stripping extraction used on the fallback
// fetch path: no body scoping, no XBRL handling, just visible text with
// newline-separated blocks.
func ExtractTextGeneric(content string) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(parts, "\n"), nil
}
