package hostdom

import "testing"

const queryPage = `<html><body>
  <div id="header" class="top bar">
    <button aria-label="Open README">README</button>
    <button data-testid="theme-toggle" disabled>Theme</button>
    <a href="/docs">Docs</a>
  </div>
  <main>
    <div role="button" class="chip">Chip</div>
    <textarea id="composer"></textarea>
    <div style="display: none"><button>Ghost</button></div>
  </main>
</body></html>`

func parseQueryDoc(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse([]byte(queryPage), "/")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestQuerySelectors(t *testing.T) {
	doc := parseQueryDoc(t)

	cases := []struct {
		sel  string
		want int
	}{
		{"button", 3},
		{"#header", 1},
		{".chip", 1},
		{"div.top", 1},
		{"#header button", 2},
		{"button[data-testid]", 1},
		{"button[data-testid=theme-toggle]", 1},
		{"button[data-testid=missing]", 0},
		{"main textarea", 1},
		{"#missing", 0},
	}
	for _, tc := range cases {
		if got := len(doc.Query(tc.sel)); got != tc.want {
			t.Errorf("Query(%q) = %d matches, want %d", tc.sel, got, tc.want)
		}
	}
}

func TestInteractiveElements(t *testing.T) {
	doc := parseQueryDoc(t)

	// 3 buttons, 1 link, 1 role=button, 1 textarea.
	if got := len(doc.InteractiveElements()); got != 6 {
		t.Fatalf("InteractiveElements = %d, want 6", got)
	}
}

func TestFocusablesSkipDisabledAndHidden(t *testing.T) {
	doc := parseQueryDoc(t)

	// README button, link, chip, textarea. Theme is disabled, Ghost is
	// inside a hidden ancestor.
	els := doc.Focusables(nil)
	if len(els) != 4 {
		t.Fatalf("Focusables = %d, want 4", len(els))
	}
	for _, el := range els {
		if Text(el) == "Ghost" || Text(el) == "Theme" {
			t.Fatalf("unfocusable element included: %s", Text(el))
		}
	}
}

func TestFocusablesScoped(t *testing.T) {
	doc := parseQueryDoc(t)

	els := doc.Focusables(doc.ElementByID("header"))
	if len(els) != 2 {
		t.Fatalf("scoped Focusables = %d, want 2", len(els))
	}
}
