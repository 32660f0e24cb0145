package hostdom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ElementByID returns the first element with the given id, nil when none.
func (d *Document) ElementByID(id string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && Attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Query returns all nodes matching a simple CSS selector.
// Supported subset:
//   - tag: "button", "header"
//   - .class: ".composer"
//   - #id: "#header"
//   - tag.class, tag#id
//   - tag[attr], tag[attr=val]
//   - parts separated by space (descendant combinator)
func (d *Document) Query(selector string) []*html.Node {
	parts := strings.Fields(selector)
	if len(parts) == 0 {
		return nil
	}

	matches := matchSimple(d.root, parts[0])
	for i := 1; i < len(parts); i++ {
		var next []*html.Node
		for _, parent := range matches {
			next = append(next, matchSimple(parent, parts[i])...)
		}
		matches = next
	}
	return matches
}

// QueryFirst returns the first match of Query, nil when none.
func (d *Document) QueryFirst(selector string) *html.Node {
	if m := d.Query(selector); len(m) > 0 {
		return m[0]
	}
	return nil
}

var interactiveAtoms = map[atom.Atom]bool{
	atom.A:        true,
	atom.Button:   true,
	atom.Input:    true,
	atom.Select:   true,
	atom.Textarea: true,
}

func isInteractive(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if interactiveAtoms[n.DataAtom] {
		return true
	}
	return Attr(n, "role") == "button"
}

// InteractiveElements returns every interactive element in the tree:
// buttons, links, form inputs, and anything carrying role=button.
func (d *Document) InteractiveElements() []*html.Node {
	var els []*html.Node
	walk(d.root, func(n *html.Node) bool {
		if isInteractive(n) {
			els = append(els, n)
		}
		return true
	})
	return els
}

// Focusables returns the focusable elements inside scope in tree order:
// interactive elements that are not disabled and not hidden (directly or
// by an ancestor within scope). A nil scope means the whole document.
func (d *Document) Focusables(scope *html.Node) []*html.Node {
	if scope == nil {
		scope = d.root
	}
	var els []*html.Node
	var f func(n *html.Node, hidden bool)
	f = func(n *html.Node, hidden bool) {
		if n.Type == html.ElementNode {
			hidden = hidden || IsHidden(n)
		}
		if !hidden && isInteractive(n) && !HasAttr(n, "disabled") {
			els = append(els, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c, hidden)
		}
	}
	f(scope, false)
	return els
}

type simpleSelector struct {
	tag       string
	id        string
	class     string
	attrName  string
	attrValue string
}

// matchSimple finds all nodes under root matching a single selector part.
func matchSimple(root *html.Node, sel string) []*html.Node {
	m := parseSimpleSelector(sel)
	var results []*html.Node
	walk(root, func(n *html.Node) bool {
		if n != root && matchesSelector(n, m) {
			results = append(results, n)
		}
		return true
	})
	return results
}

// parseSimpleSelector parses "tag", ".class", "#id", "tag.class",
// "tag#id", "tag[attr]", "tag[attr=val]".
func parseSimpleSelector(sel string) simpleSelector {
	var m simpleSelector

	if i := strings.IndexByte(sel, '['); i >= 0 {
		attrExpr := strings.TrimRight(sel[i+1:], "]")
		sel = sel[:i]
		if name, val, ok := strings.Cut(attrExpr, "="); ok {
			m.attrName = name
			m.attrValue = strings.Trim(val, `'"`)
		} else {
			m.attrName = attrExpr
		}
	}

	if i := strings.IndexByte(sel, '#'); i >= 0 {
		m.id = sel[i+1:]
		sel = sel[:i]
	} else if i := strings.IndexByte(sel, '.'); i >= 0 {
		m.class = sel[i+1:]
		sel = sel[:i]
	}

	m.tag = sel
	return m
}

func matchesSelector(n *html.Node, m simpleSelector) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if m.tag != "" && m.tag != "*" && n.Data != m.tag {
		return false
	}
	if m.id != "" && Attr(n, "id") != m.id {
		return false
	}
	if m.class != "" && !hasClass(n, m.class) {
		return false
	}
	if m.attrName != "" {
		val, ok := lookupAttr(n, m.attrName)
		if !ok {
			return false
		}
		if m.attrValue != "" && val != m.attrValue {
			return false
		}
	}
	return true
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
