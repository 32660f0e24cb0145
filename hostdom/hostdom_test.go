package hostdom

import (
	"strings"
	"testing"

	"github.com/hazyhaar/introveil/mutation"
)

const testPage = `<!DOCTYPE html>
<html>
<head><title>host</title></head>
<body>
  <div id="header"><button aria-label="Open README">README</button></div>
  <main><textarea id="composer"></textarea></main>
</body>
</html>`

func parseDoc(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse([]byte(testPage), "/")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestParseFindsStructure(t *testing.T) {
	doc := parseDoc(t)
	if doc.Head() == nil {
		t.Fatal("no head")
	}
	if doc.Body() == nil {
		t.Fatal("no body")
	}
	if doc.Path() != "/" {
		t.Fatalf("path = %q", doc.Path())
	}
	if doc.ElementByID("composer") == nil {
		t.Fatal("composer not found")
	}
}

func TestAppendEmitsInsert(t *testing.T) {
	doc := parseDoc(t)
	ch := doc.Subscribe(16)

	el := NewElement("div", map[string]string{"id": "x"})
	el.AppendChild(NewText("hello"))
	doc.Append(doc.Body(), el)

	rec := <-ch
	if rec.Op != mutation.OpInsert {
		t.Fatalf("op = %s", rec.Op)
	}
	if !strings.Contains(rec.HTML, "hello") {
		t.Fatalf("insert HTML missing subtree: %q", rec.HTML)
	}
	if doc.ElementByID("x") == nil {
		t.Fatal("appended node not in tree")
	}
}

func TestRemoveToleratesDetached(t *testing.T) {
	doc := parseDoc(t)

	el := doc.ElementByID("composer")
	doc.Remove(el)
	if doc.ElementByID("composer") != nil {
		t.Fatal("still attached")
	}

	// Second removal and nil are no-ops.
	doc.Remove(el)
	doc.Remove(nil)
}

func TestRemoveClearsFocusAndHandlers(t *testing.T) {
	doc := parseDoc(t)

	btn := doc.QueryFirst("button")
	doc.Focus(btn)
	called := false
	doc.OnActivate(btn, func() { called = true })

	doc.Remove(doc.ElementByID("header"))

	if doc.Focused() != nil {
		t.Fatal("focus survived subtree removal")
	}
	doc.Activate(btn)
	if called {
		t.Fatal("handler survived subtree removal")
	}
}

func TestSetAttrNoopIsSilent(t *testing.T) {
	doc := parseDoc(t)
	ch := doc.Subscribe(16)

	el := doc.ElementByID("composer")
	doc.SetAttr(el, "rows", "4")
	if rec := <-ch; rec.Op != mutation.OpAttr || rec.Value != "4" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	// Same value again: no record.
	doc.SetAttr(el, "rows", "4")
	select {
	case rec := <-ch:
		t.Fatalf("no-op write emitted %+v", rec)
	default:
	}
}

func TestSetStylePreservesOtherDeclarations(t *testing.T) {
	doc := parseDoc(t)
	el := doc.ElementByID("composer")

	doc.SetStyle(el, "display", "none")
	doc.SetStyle(el, "opacity", "0")
	doc.SetStyle(el, "display", "block")

	if got := Style(el, "display"); got != "block" {
		t.Fatalf("display = %q", got)
	}
	if got := Style(el, "opacity"); got != "0" {
		t.Fatalf("opacity = %q", got)
	}
}

func TestSetText(t *testing.T) {
	doc := parseDoc(t)
	ch := doc.Subscribe(16)

	btn := doc.QueryFirst("button")
	doc.SetText(btn, "Changed")
	if rec := <-ch; rec.Op != mutation.OpText || rec.Value != "Changed" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if Text(btn) != "Changed" {
		t.Fatalf("text = %q", Text(btn))
	}

	// Identical text is silent.
	doc.SetText(btn, "Changed")
	select {
	case rec := <-ch:
		t.Fatalf("no-op text emitted %+v", rec)
	default:
	}
}

func TestResetReplacesTree(t *testing.T) {
	doc := parseDoc(t)
	ch := doc.Subscribe(16)

	btn := doc.QueryFirst("button")
	doc.Focus(btn)
	doc.OnActivate(btn, func() {})

	if err := doc.Reset([]byte(`<html><body><p id="fresh">new</p></body></html>`)); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if rec := <-ch; rec.Op != mutation.OpDocReset {
		t.Fatalf("op = %s", rec.Op)
	}
	if doc.ElementByID("fresh") == nil {
		t.Fatal("new tree not installed")
	}
	if doc.ElementByID("composer") != nil {
		t.Fatal("old tree survived")
	}
	if doc.Focused() != nil {
		t.Fatal("focus survived reset")
	}
}

func TestSubscribeDropsOnFullBuffer(t *testing.T) {
	doc := parseDoc(t)
	doc.Subscribe(1)

	el := doc.ElementByID("composer")
	doc.SetAttr(el, "a", "1")
	doc.SetAttr(el, "b", "2")
	doc.SetAttr(el, "c", "3")

	if doc.Dropped() != 2 {
		t.Fatalf("dropped = %d, want 2", doc.Dropped())
	}
}

func TestActivate(t *testing.T) {
	doc := parseDoc(t)
	btn := doc.QueryFirst("button")

	calls := 0
	doc.OnActivate(btn, func() { calls++ })
	doc.Activate(btn)
	doc.Activate(btn)
	if calls != 2 {
		t.Fatalf("calls = %d", calls)
	}

	// Re-registration replaces.
	doc.OnActivate(btn, func() { calls += 10 })
	doc.Activate(btn)
	if calls != 12 {
		t.Fatalf("calls = %d", calls)
	}

	// Nodes without a handler are ignored.
	doc.Activate(doc.Body())
}
