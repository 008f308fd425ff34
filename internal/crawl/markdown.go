package crawl

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ToMarkdown converts a parsed HTML document into a plain markdown rendition:
// headings become #-prefixed lines, list items become dashes, table rows
// become pipe-separated lines, links keep their text and target. This is the
// default conversion for the HTML fetch path; its output is used as
// normalized input directly.
func ToMarkdown(doc *goquery.Document) string {
	sel := doc.Find("body")
	if sel.Length() == 0 {
		sel = doc.Selection
	}

	var b strings.Builder
	for _, n := range sel.Nodes {
		renderBlock(&b, n)
	}

	out := collapseBlankLines.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out)
}

var collapseBlankLines = regexp.MustCompile(`\n{3,}`)

var headingLevel = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

func renderBlock(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.Data {
	case "script", "style", "noscript", "iframe", "head":
		return
	case "h1", "h2", "h3", "h4", "h5", "h6":
		if text := inlineText(n); text != "" {
			b.WriteString(strings.Repeat("#", headingLevel[n.Data]))
			b.WriteString(" ")
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	case "p", "blockquote", "pre":
		if text := inlineText(n); text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	case "li":
		if text := inlineText(n); text != "" {
			b.WriteString("- ")
			b.WriteString(text)
			b.WriteString("\n")
		}
	case "ul", "ol":
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderBlock(b, c)
		}
		b.WriteString("\n")
	case "tr":
		var cells []string
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
				cells = append(cells, inlineText(c))
			}
		}
		if len(cells) > 0 {
			b.WriteString("| ")
			b.WriteString(strings.Join(cells, " | "))
			b.WriteString(" |\n")
		}
	case "table", "thead", "tbody":
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderBlock(b, c)
		}
		b.WriteString("\n")
	case "br":
		b.WriteString("\n")
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderBlock(b, c)
		}
	}
}

// inlineText flattens a subtree into one line; anchors keep their target in
// markdown link form.
func inlineText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		case n.Type == html.ElementNode && n.Data == "a":
			text := strings.TrimSpace(nodeText(n))
			href := attr(n, "href")
			if text != "" && href != "" {
				b.WriteString("[" + text + "](" + href + ")")
			} else {
				b.WriteString(text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}
