package hostdom

// Key is a keyboard event delivered to the document. Name is the key
// name ("Tab", "Enter", "Escape") or the literal character typed.
type Key struct {
	Name  string
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// Modified reports whether any non-shift modifier is held.
func (k Key) Modified() bool {
	return k.Ctrl || k.Alt || k.Meta
}

// OnKey installs the handler invoked for every dispatched key before
// default handling. A handler returning true consumes the event.
func (d *Document) OnKey(fn func(Key) bool) { d.keyFn = fn }

// DispatchKey delivers a key event: first to the installed handler, then
// to default handling. The only default is Tab moving focus through the
// document's focusable set in tree order, wrapping at the ends.
func (d *Document) DispatchKey(k Key) {
	if d.keyFn != nil && d.keyFn(k) {
		return
	}
	if k.Name == "Tab" {
		d.moveFocus(!k.Shift)
	}
}

func (d *Document) moveFocus(forward bool) {
	els := d.Focusables(nil)
	if len(els) == 0 {
		return
	}
	idx := -1
	for i, el := range els {
		if el == d.focused {
			idx = i
			break
		}
	}
	if forward {
		d.focused = els[(idx+1)%len(els)]
		return
	}
	if idx <= 0 {
		d.focused = els[len(els)-1]
		return
	}
	d.focused = els[idx-1]
}
