package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// extractText returns the human-visible text of an HTML document. Block
// elements start a new line and runs of whitespace collapse to one space.
func extractText(rawHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var builder strings.Builder
	collectText(doc, &builder)

	lines := strings.Split(builder.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), nil
}

func collectText(n *html.Node, builder *strings.Builder) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.TextNode:
		// newlines inside text are layout, not content
		builder.WriteString(strings.Join(strings.Fields(n.Data), " "))
		builder.WriteString(" ")
		return
	case html.ElementNode:
		tagName := strings.ToLower(n.Data)
		if isSkippedElement(tagName) || isHidden(n) {
			return
		}
		if isBlockElement(tagName) || tagName == "br" {
			builder.WriteString("\n")
		}
		defer func() {
			if isBlockElement(tagName) {
				builder.WriteString("\n")
			}
		}()
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, builder)
	}
}

// isSkippedElement returns true for elements that never render text
func isSkippedElement(tagName string) bool {
	switch tagName {
	case "head", "script", "style", "noscript", "template", "iframe", "object", "embed", "svg":
		return true
	}
	return false
}

// isHidden reports elements hidden by attribute or inline style.
func isHidden(n *html.Node) bool {
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "hidden":
			return true
		case "style":
			style := strings.ReplaceAll(strings.ToLower(attr.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

// isBlockElement returns true for block-level elements
func isBlockElement(tagName string) bool {
	switch tagName {
	case "div", "p", "section", "article", "header", "footer", "nav", "main", "aside",
		"h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li", "table", "tr", "td", "th",
		"form", "fieldset", "blockquote", "pre", "body":
		return true
	}
	return false
}
