package hostdom

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewElement builds a detached element node. Attributes are emitted in
// sorted key order so construction is deterministic.
func NewElement(tag string, attrs map[string]string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: attrs[k]})
	}
	return n
}

// NewText builds a detached text node.
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// Attr returns the value of the named attribute, "" when absent.
func Attr(n *html.Node, name string) string {
	v, _ := lookupAttr(n, name)
	return v
}

// HasAttr reports whether the named attribute is present.
func HasAttr(n *html.Node, name string) bool {
	_, ok := lookupAttr(n, name)
	return ok
}

func lookupAttr(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// Style returns one property value from the style attribute, "" when the
// property is not declared.
func Style(n *html.Node, prop string) string {
	for _, decl := range strings.Split(Attr(n, "style"), ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(k) == prop {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// withStyle returns the style attribute text with prop set to value,
// preserving the order of other declarations.
func withStyle(style, prop, value string) string {
	var decls []string
	replaced := false
	for _, decl := range strings.Split(style, ";") {
		k, _, ok := strings.Cut(decl, ":")
		if !ok || strings.TrimSpace(k) == "" {
			continue
		}
		if strings.TrimSpace(k) == prop {
			decls = append(decls, prop+": "+value)
			replaced = true
			continue
		}
		decls = append(decls, strings.TrimSpace(decl))
	}
	if !replaced {
		decls = append(decls, prop+": "+value)
	}
	return strings.Join(decls, "; ")
}

// IsHidden reports whether n itself is hidden (display:none or
// aria-hidden).
func IsHidden(n *html.Node) bool {
	return Style(n, "display") == "none" || Attr(n, "aria-hidden") == "true"
}

// Text collects all text content of a subtree, whitespace-normalised.
func Text(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			t := strings.TrimSpace(c.Data)
			if t != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(t)
			}
		}
		return true
	})
	return sb.String()
}

// VisibleText collects text content, skipping hidden subtrees.
func VisibleText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(c *html.Node) {
		if c.Type == html.ElementNode && IsHidden(c) {
			return
		}
		if c.Type == html.TextNode {
			t := strings.TrimSpace(c.Data)
			if t != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(t)
			}
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			f(cc)
		}
	}
	f(n)
	return sb.String()
}

// Render serialises a node subtree back to HTML.
func Render(n *html.Node) string {
	var buf bytes.Buffer
	html.Render(&buf, n)
	return buf.String()
}

// Contains reports whether n is root or a descendant of root.
func Contains(root, n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == root {
			return true
		}
	}
	return false
}

// NodePath returns a slash path addressing n from the document root,
// e.g. /html/body/div[2]. Positions are 1-based among same-tag element
// siblings. Text nodes get a trailing /text().
func NodePath(n *html.Node) string {
	if n == nil {
		return ""
	}
	var segs []string
	for cur := n; cur != nil && cur.Type != html.DocumentNode; cur = cur.Parent {
		switch cur.Type {
		case html.ElementNode:
			pos := 1
			for s := cur.PrevSibling; s != nil; s = s.PrevSibling {
				if s.Type == html.ElementNode && s.Data == cur.Data {
					pos++
				}
			}
			segs = append(segs, fmt.Sprintf("%s[%d]", cur.Data, pos))
		case html.TextNode:
			segs = append(segs, "text()")
		}
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return "/" + strings.Join(segs, "/")
}

func tagOf(n *html.Node) string {
	if n != nil && n.Type == html.ElementNode {
		return n.Data
	}
	return ""
}
