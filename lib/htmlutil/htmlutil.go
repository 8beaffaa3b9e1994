package htmlutil

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
)

// GetText returns the concatenated text of every text node under node, the
// equivalent of the DOM textContent property.
func GetText(node *xhtml.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *xhtml.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == xhtml.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// InnerHTML renders the children of the first node in sel. A selection
// without nodes renders as the empty string.
func InnerHTML(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	out, err := sel.Html()
	if err != nil {
		return ""
	}
	return out
}

var (
	lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?\s*>`)
	anyTag       = regexp.MustCompile(`<[^>]+>`)
)

// SplitLines splits rendered markup on <br> variants and literal newlines,
// strips any remaining tags from each piece and decodes character references.
// Pieces are returned untrimmed and may be empty.
func SplitLines(markup string) []string {
	var pieces []string
	for _, chunk := range lineBreakTag.Split(markup, -1) {
		for _, piece := range strings.Split(chunk, "\n") {
			pieces = append(pieces, html.UnescapeString(anyTag.ReplaceAllString(piece, "")))
		}
	}
	return pieces
}

// ParentElement returns the closest ancestor of node that is an element.
func ParentElement(node *xhtml.Node) *xhtml.Node {
	for cursor := node.Parent; cursor != nil; cursor = cursor.Parent {
		if cursor.Type == xhtml.ElementNode {
			return cursor
		}
	}
	return nil
}

// PreviousElementSibling skips text and comment nodes the way the DOM
// previousElementSibling property does.
func PreviousElementSibling(node *xhtml.Node) *xhtml.Node {
	for cursor := node.PrevSibling; cursor != nil; cursor = cursor.PrevSibling {
		if cursor.Type == xhtml.ElementNode {
			return cursor
		}
	}
	return nil
}

// IsTag reports whether node is an element with the given lowercase tag name.
func IsTag(node *xhtml.Node, tag string) bool {
	return node != nil && node.Type == xhtml.ElementNode && node.Data == tag
}
