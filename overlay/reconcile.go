package overlay

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/introveil/hostdom"
)

// Reconcile runs one reconciliation pass: hide denylisted host controls,
// ensure exactly one return control. Safe to call any number of times in
// any interleaving with lifecycle operations.
func (k *Keeper) Reconcile() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.reconcile()
}

// reconcile is the level-triggered control loop body. Callers hold k.mu.
func (k *Keeper) reconcile() {
	if k.inert {
		return
	}

	k.syncRoot()

	hidden := 0
	for _, el := range k.doc.InteractiveElements() {
		// Never suppress the keeper's own controls.
		if k.root != nil && hostdom.Contains(k.root, el) {
			continue
		}
		if hostdom.Attr(el, "id") == returnID {
			continue
		}
		sig := signature(el)
		if matchesAny(sig, k.cfg.ReadmeTerms) || matchesAny(sig, k.cfg.ThemeTerms) {
			// Hide, never remove: the host owns these nodes. Writes
			// that change nothing emit nothing, so repeated passes
			// stay silent; a host re-render that recreates the
			// element gets it hidden again on the next pass.
			k.doc.SetStyle(el, "display", "none")
			k.doc.SetAttr(el, "aria-hidden", "true")
			hidden++
		}
	}
	k.hiddenMatches = hidden

	k.ensureReturnControl()
}

// signature is the normalized lowercase identity of an interactive
// element: accessible label, test identifier, and text content.
func signature(el *html.Node) string {
	parts := []string{
		hostdom.Attr(el, "aria-label"),
		hostdom.Attr(el, "data-testid"),
		hostdom.Text(el),
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func matchesAny(sig string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(sig, t) {
			return true
		}
	}
	return false
}

// ensureReturnControl guarantees exactly zero-or-one return control:
// check-then-create, never assuming a prior pass's work survived the
// host's own re-renders.
func (k *Keeper) ensureReturnControl() {
	rc := k.doc.ElementByID(returnID)
	if rc == nil {
		rc = hostdom.NewElement("button", map[string]string{
			"id":         returnID,
			"type":       "button",
			"aria-label": "Return to intro",
		})
		rc.AppendChild(hostdom.NewText("Intro"))

		if header := k.doc.QueryFirst(k.cfg.HeaderSelector); header != nil {
			k.doc.Append(header, rc)
		} else {
			float := k.doc.ElementByID(floatID)
			if float == nil {
				float = hostdom.NewElement("div", map[string]string{
					"id":    floatID,
					"style": "position: fixed; top: 12px; right: 12px; z-index: 10000",
				})
				k.doc.Append(k.doc.Body(), float)
			}
			k.doc.Append(float, rc)
		}
		k.logger.Debug("introveil: return control installed")
	}

	// Re-register every pass: a document reset keeps the node but loses
	// its handler.
	k.doc.OnActivate(rc, func() { k.Present(true) })
}

// syncRoot re-resolves the overlay root pointer by ID. After a document
// reset the tree holds a structurally identical overlay whose nodes are
// new; without this the keeper would operate on detached nodes.
func (k *Keeper) syncRoot() {
	if k.st != stateVisible {
		return
	}
	root := k.doc.ElementByID(overlayID)
	if root == nil {
		// The host wiped the overlay wholesale; treat as absent and
		// let the return control offer the way back.
		k.root = nil
		k.st = stateAbsent
		return
	}
	k.root = root
	k.wireRoot(root)
}
