package hostdom

import (
	"strings"
	"testing"
)

func TestNewElementSortedAttrs(t *testing.T) {
	el := NewElement("div", map[string]string{"z": "1", "a": "2", "m": "3"})
	var keys []string
	for _, a := range el.Attr {
		keys = append(keys, a.Key)
	}
	if got := strings.Join(keys, ","); got != "a,m,z" {
		t.Fatalf("attr order = %s", got)
	}
}

func TestIsHidden(t *testing.T) {
	cases := []struct {
		name   string
		attrs  map[string]string
		hidden bool
	}{
		{"plain", nil, false},
		{"display none", map[string]string{"style": "display: none"}, true},
		{"display block", map[string]string{"style": "display: block"}, false},
		{"aria hidden", map[string]string{"aria-hidden": "true"}, true},
		{"aria visible", map[string]string{"aria-hidden": "false"}, false},
		{"none among others", map[string]string{"style": "color: red; display: none; margin: 0"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsHidden(NewElement("div", tc.attrs)); got != tc.hidden {
				t.Fatalf("IsHidden = %v, want %v", got, tc.hidden)
			}
		})
	}
}

func TestVisibleTextSkipsHiddenSubtrees(t *testing.T) {
	doc, err := Parse([]byte(`<html><body>
		<p>shown</p>
		<div style="display: none"><p>hidden</p></div>
		<span aria-hidden="true">decoration</span>
	</body></html>`), "/")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := VisibleText(doc.Body()); got != "shown" {
		t.Fatalf("VisibleText = %q", got)
	}
	if got := Text(doc.Body()); !strings.Contains(got, "hidden") {
		t.Fatalf("Text should include hidden content, got %q", got)
	}
}

func TestNodePath(t *testing.T) {
	doc, err := Parse([]byte(`<html><body><div>a</div><div><span>b</span></div></body></html>`), "/")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	span := doc.QueryFirst("span")
	if got := NodePath(span); got != "/html[1]/body[1]/div[2]/span[1]" {
		t.Fatalf("NodePath = %s", got)
	}
	if got := NodePath(span.FirstChild); got != "/html[1]/body[1]/div[2]/span[1]/text()" {
		t.Fatalf("text NodePath = %s", got)
	}
	if NodePath(nil) != "" {
		t.Fatal("nil path not empty")
	}
}

func TestContains(t *testing.T) {
	doc, err := Parse([]byte(`<html><body><div id="a"><p id="b"></p></div></body></html>`), "/")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a, b := doc.ElementByID("a"), doc.ElementByID("b")

	if !Contains(a, b) {
		t.Fatal("descendant not contained")
	}
	if !Contains(a, a) {
		t.Fatal("self not contained")
	}
	if Contains(b, a) {
		t.Fatal("ancestor contained in descendant")
	}
}
