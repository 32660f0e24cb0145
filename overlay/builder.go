package overlay

import (
	"golang.org/x/net/html"

	"github.com/hazyhaar/introveil/hostdom"
)

// Element IDs owned by the keeper inside the host tree.
const (
	overlayID   = "introveil-overlay"
	enterID     = "introveil-enter"
	returnID    = "introveil-return"
	floatID     = "introveil-float"
	keyframesID = "introveil-keyframes"
)

var panelFeatures = []string{
	"Address and BBL lookup",
	"Zoning and land use context",
	"Environmental risk indicators",
	"Exportable JSON bundles",
}

var panelLinks = []struct {
	label string
	href  string
}{
	{"Project documentation", "https://github.com/hazyhaar/introveil#readme"},
	{"Data sources", "https://opendata.cityofnewyork.us"},
	{"Methodology", "https://github.com/hazyhaar/introveil/blob/main/docs/methodology.md"},
}

// buildPanel constructs the detached intro panel. It reads no external
// state and returns a fresh tree on every call; the root starts
// invisible and non-interactive so presentation can animate it in.
func buildPanel() *html.Node {
	root := hostdom.NewElement("div", map[string]string{
		"id":         overlayID,
		"role":       "dialog",
		"aria-modal": "true",
		"style":      "opacity: 0; pointer-events: none",
	})

	backdrop := hostdom.NewElement("div", map[string]string{
		"class":       "introveil-backdrop",
		"aria-hidden": "true",
	})
	root.AppendChild(backdrop)

	panel := hostdom.NewElement("div", map[string]string{"class": "introveil-panel"})
	root.AppendChild(panel)

	brand := hostdom.NewElement("img", map[string]string{
		"class": "introveil-brand",
		"src":   "/public/logo.svg",
		"alt":   "Site Risk Navigator",
	})
	panel.AppendChild(brand)

	title := hostdom.NewElement("h1", nil)
	title.AppendChild(hostdom.NewText("Site Risk Navigator"))
	panel.AppendChild(title)

	tagline := hostdom.NewElement("p", map[string]string{"class": "introveil-tagline"})
	tagline.AppendChild(hostdom.NewText(
		"Ask about any New York City address and get an instant site risk profile."))
	panel.AppendChild(tagline)

	list := hostdom.NewElement("ul", map[string]string{"class": "introveil-features"})
	for _, f := range panelFeatures {
		li := hostdom.NewElement("li", nil)
		li.AppendChild(hostdom.NewText("✓ " + f))
		list.AppendChild(li)
	}
	panel.AppendChild(list)

	enter := hostdom.NewElement("button", map[string]string{
		"id":   enterID,
		"type": "button",
	})
	enter.AppendChild(hostdom.NewText("Get started"))
	panel.AppendChild(enter)

	links := hostdom.NewElement("nav", map[string]string{"class": "introveil-links"})
	for _, l := range panelLinks {
		a := hostdom.NewElement("a", map[string]string{
			"href":   l.href,
			"target": "_blank",
			"rel":    "noopener noreferrer",
		})
		a.AppendChild(hostdom.NewText(l.label))
		links.AppendChild(a)
	}
	panel.AppendChild(links)

	disclaimer := hostdom.NewElement("p", map[string]string{"class": "introveil-disclaimer"})
	disclaimer.AppendChild(hostdom.NewText(
		"Results are informational only and not professional advice."))
	panel.AppendChild(disclaimer)

	return root
}
