// internal/dom/html.go
package dom

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoRootElement is returned when a parsed document contains no element
// node at all.
var ErrNoRootElement = errors.New("dom: document has no root element")

// ParseHTML reads an HTML document and converts it into a dom tree rooted
// at the document's first element. Comments, doctypes, and
// whitespace-only text runs are dropped; attribute keys keep at most one
// value, first occurrence wins.
func ParseHTML(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	root := firstElement(doc)
	if root == nil {
		return nil, ErrNoRootElement
	}
	return convert(root), nil
}

func firstElement(n *html.Node) *html.Node {
	if n.Type == html.ElementNode {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if el := firstElement(c); el != nil {
			return el
		}
	}
	return nil
}

func convert(n *html.Node) *Node {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		if _, seen := attrs[a.Key]; !seen {
			attrs[a.Key] = a.Val
		}
	}
	el := Element(n.Data, attrs)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			el.Children = append(el.Children, convert(c))
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				el.Children = append(el.Children, Text(c.Data))
			}
		}
	}
	return el
}

// StyleText collects the text content of every <style> element in the
// tree, in document order. Callers feed the result to the stylesheet
// parser.
func StyleText(root *Node) []string {
	var sheets []string
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Type == ElementNode && n.TagName == "style" {
			var b strings.Builder
			for _, c := range n.Children {
				if c.Type == TextNode {
					b.WriteString(c.Text)
				}
			}
			if b.Len() > 0 {
				sheets = append(sheets, b.String())
			}
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return sheets
}
