// Package hostdom models the externally-owned host document as a mutable
// HTML tree. It tracks the current page path, input focus and activation
// handlers, and emits structured mutation records so consumers can react
// to host-tree rewrites.
//
// A Document is not safe for concurrent use. The owning controller
// serializes every operation; that single execution context is what makes
// reconciliation passes and lifecycle transitions atomic with respect to
// each other.
package hostdom

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/introveil/mutation"
)

// Document owns one parsed HTML tree plus its interaction state.
type Document struct {
	root    *html.Node
	path    string
	focused *html.Node
	keyFn   func(Key) bool
	onClick map[*html.Node]func()
	subs    []chan mutation.Record
	dropped uint64
}

// Parse builds a Document from raw HTML. path is the page path the
// document was loaded under (e.g. "/" or "/share/abc123").
func Parse(data []byte, path string) (*Document, error) {
	node, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("hostdom: parse: %w", err)
	}
	return &Document{
		root:    node,
		path:    path,
		onClick: make(map[*html.Node]func()),
	}, nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Path returns the page path the document was loaded under.
func (d *Document) Path() string { return d.path }

// Head returns the <head> element. html.Parse always synthesizes one.
func (d *Document) Head() *html.Node { return d.findAtom(atom.Head) }

// Body returns the <body> element.
func (d *Document) Body() *html.Node { return d.findAtom(atom.Body) }

// HTML renders the complete document.
func (d *Document) HTML() []byte {
	var buf bytes.Buffer
	html.Render(&buf, d.root)
	return buf.Bytes()
}

// Subscribe registers a mutation listener. Records are delivered
// non-blocking: when the buffer is full they are dropped, never stalling
// a document operation. Consumers that miss records recover on the next
// pass because every write they care about is level-triggered state.
func (d *Document) Subscribe(buffer int) <-chan mutation.Record {
	if buffer <= 0 {
		buffer = 256
	}
	ch := make(chan mutation.Record, buffer)
	d.subs = append(d.subs, ch)
	return ch
}

// Dropped reports how many records were discarded on full buffers.
func (d *Document) Dropped() uint64 { return d.dropped }

func (d *Document) notify(rec mutation.Record) {
	for _, ch := range d.subs {
		select {
		case ch <- rec:
		default:
			d.dropped++
		}
	}
}

// Append attaches child under parent and emits an insert record with the
// serialised subtree. A child already attached elsewhere is moved.
func (d *Document) Append(parent, child *html.Node) {
	if parent == nil || child == nil {
		return
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	parent.AppendChild(child)
	d.notify(mutation.Record{
		Op:   mutation.OpInsert,
		Path: NodePath(child),
		Tag:  tagOf(child),
		HTML: Render(child),
	})
}

// Remove detaches n from the tree. Detached or nil nodes are tolerated:
// removal of something already gone is the desired state. Focus and
// activation handlers inside the removed subtree are cleared.
func (d *Document) Remove(n *html.Node) {
	if n == nil || n.Parent == nil {
		return
	}
	path := NodePath(n)
	if d.focused != nil && Contains(n, d.focused) {
		d.focused = nil
	}
	for el := range d.onClick {
		if Contains(n, el) {
			delete(d.onClick, el)
		}
	}
	n.Parent.RemoveChild(n)
	d.notify(mutation.Record{Op: mutation.OpRemove, Path: path, Tag: tagOf(n)})
}

// SetAttr sets an attribute. Writing the value already present emits
// nothing, so reconciliation passes that change nothing stay silent and
// the observe→reconcile loop converges.
func (d *Document) SetAttr(n *html.Node, name, value string) {
	if n == nil {
		return
	}
	old, had := lookupAttr(n, name)
	if had && old == value {
		return
	}
	if had {
		for i := range n.Attr {
			if n.Attr[i].Key == name {
				n.Attr[i].Val = value
				break
			}
		}
	} else {
		n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
	}
	d.notify(mutation.Record{
		Op:       mutation.OpAttr,
		Path:     NodePath(n),
		Tag:      tagOf(n),
		Name:     name,
		Value:    value,
		OldValue: old,
	})
}

// RemoveAttr removes an attribute; absent attributes are a no-op.
func (d *Document) RemoveAttr(n *html.Node, name string) {
	if n == nil {
		return
	}
	old, had := lookupAttr(n, name)
	if !had {
		return
	}
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != name {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
	d.notify(mutation.Record{
		Op:       mutation.OpAttrDel,
		Path:     NodePath(n),
		Tag:      tagOf(n),
		Name:     name,
		OldValue: old,
	})
}

// SetStyle sets one property inside the style attribute, preserving the
// other declarations.
func (d *Document) SetStyle(n *html.Node, prop, value string) {
	d.SetAttr(n, "style", withStyle(Attr(n, "style"), prop, value))
}

// SetText replaces the children of n with a single text node.
func (d *Document) SetText(n *html.Node, text string) {
	if n == nil {
		return
	}
	if Text(n) == text {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(NewText(text))
	d.notify(mutation.Record{
		Op:    mutation.OpText,
		Path:  NodePath(n),
		Tag:   tagOf(n),
		Value: text,
	})
}

// Reset replaces the entire tree from raw HTML, clearing focus and
// activation handlers, and emits a doc_reset record. Used when a live
// binding resynchronises from a page snapshot.
func (d *Document) Reset(data []byte) error {
	node, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("hostdom: reset: %w", err)
	}
	d.root = node
	d.focused = nil
	d.onClick = make(map[*html.Node]func())
	d.notify(mutation.Record{Op: mutation.OpDocReset})
	return nil
}

// OnActivate registers the handler invoked when n is activated (clicked).
// Registering again replaces the previous handler.
func (d *Document) OnActivate(n *html.Node, fn func()) {
	if n == nil {
		return
	}
	d.onClick[n] = fn
}

// Activate simulates user activation of n. Nodes without a handler are
// ignored.
func (d *Document) Activate(n *html.Node) {
	if fn := d.onClick[n]; fn != nil {
		fn()
	}
}

// Focus moves input focus to n. A nil n blurs.
func (d *Document) Focus(n *html.Node) { d.focused = n }

// Focused returns the currently focused node, nil when none.
func (d *Document) Focused() *html.Node { return d.focused }

func (d *Document) findAtom(a atom.Atom) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	return found
}

// walk visits n and its subtree depth-first. fn returning false stops the
// walk.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
