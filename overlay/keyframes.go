package overlay

import "github.com/hazyhaar/introveil/hostdom"

const keyframesCSS = `@keyframes introveil-fade { from { opacity: 0; } to { opacity: 1; } }`

// ensureKeyframes installs the fade transition definition in the host
// document exactly once, no matter how often it is called.
func ensureKeyframes(doc *hostdom.Document) {
	if doc.ElementByID(keyframesID) != nil {
		return
	}
	style := hostdom.NewElement("style", map[string]string{"id": keyframesID})
	style.AppendChild(hostdom.NewText(keyframesCSS))
	parent := doc.Head()
	if parent == nil {
		parent = doc.Body()
	}
	doc.Append(parent, style)
}
