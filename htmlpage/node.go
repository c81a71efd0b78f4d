package htmlpage

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// attr returns the value of the attribute key of n and whether it is set.
func attr(n *html.Node, key string) (val string, ok bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}

	return "", false
}

// attrVal returns the value of the attribute key of n or an empty string.
func attrVal(n *html.Node, key string) (val string) {
	val, _ = attr(n, key)

	return val
}

// setAttr sets the attribute key of n, adding it if necessary.
func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val

			return
		}
	}

	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// hasClass returns true if n is an element with the class cls.
func hasClass(n *html.Node, cls string) bool {
	if n.Type != html.ElementNode {
		return false
	}

	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == cls {
			return true
		}
	}

	return false
}

// isElement returns true if n is an element of the type a.
func isElement(n *html.Node, a atom.Atom) bool {
	return n.Type == html.ElementNode && n.DataAtom == a
}

// walk calls fn for n and all its descendants in document order.  The
// children of a node are skipped if fn returns false.
func walk(n *html.Node, fn func(n *html.Node) (descend bool)) {
	if !fn(n) {
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// findAll returns all descendants of n matching pred in document order.
func findAll(n *html.Node, pred func(n *html.Node) bool) (found []*html.Node) {
	walk(n, func(c *html.Node) bool {
		if pred(c) {
			found = append(found, c)
		}

		return true
	})

	return found
}

// findFirst returns the first descendant of n matching pred or nil.
func findFirst(n *html.Node, pred func(n *html.Node) bool) (found *html.Node) {
	walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}

		if pred(c) {
			found = c

			return false
		}

		return true
	})

	return found
}

// textContent returns the concatenated text of n and its descendants.
func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}

		return true
	})

	return sb.String()
}

// setTextContent replaces the children of n with a single text node.
func setTextContent(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}

	n.AppendChild(&html.Node{
		Type: html.TextNode,
		Data: text,
	})
}

// closest returns the nearest ancestor of n, n excluded, matching pred or
// nil.
func closest(n *html.Node, pred func(n *html.Node) bool) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if pred(p) {
			return p
		}
	}

	return nil
}
