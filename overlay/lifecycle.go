package overlay

import (
	"fmt"
	"time"

	"golang.org/x/net/html"

	"github.com/hazyhaar/introveil/hostdom"
)

// present builds and attaches a fresh overlay root. Callers hold k.mu.
//
// Any existing return control and overlay root are removed first (zero of
// each is fine), so calling present twice in a row still leaves exactly
// one attached root. The root attaches invisible and flips to visible on
// the next render opportunity so the entry transition can play.
func (k *Keeper) present(forceReset bool) {
	if k.inert {
		return
	}

	if forceReset {
		if err := k.store.Delete(dismissedKey); err != nil {
			k.logger.Warn("introveil: clear dismissal", "error", err)
		}
	}

	if rc := k.doc.ElementByID(returnID); rc != nil {
		k.doc.Remove(rc)
	}
	if old := k.doc.ElementByID(overlayID); old != nil {
		k.doc.Remove(old)
	}
	k.root = nil
	k.st = stateAbsent

	ensureKeyframes(k.doc)

	root := buildPanel()
	k.doc.Append(k.doc.Body(), root)
	k.doc.SetStyle(root, "transition",
		fmt.Sprintf("opacity %dms ease", k.cfg.FadeDuration.Milliseconds()))
	k.root = root
	k.st = stateVisible
	k.wireRoot(root)

	// Next render opportunity: flip visible so the transition has a
	// starting state to animate from.
	time.AfterFunc(k.cfg.FrameDelay, func() {
		k.mu.Lock()
		defer k.mu.Unlock()
		if k.root != root {
			return
		}
		k.doc.SetStyle(root, "opacity", "1")
		k.doc.SetStyle(root, "pointer-events", "auto")
	})

	// Keyboard-first entry: focus the primary control shortly after
	// attachment.
	time.AfterFunc(k.cfg.FocusDelay, func() {
		k.mu.Lock()
		defer k.mu.Unlock()
		if k.root != root {
			return
		}
		if btn := k.doc.ElementByID(enterID); btn != nil && hostdom.Contains(root, btn) {
			k.doc.Focus(btn)
		}
	})

	k.logger.Debug("introveil: overlay presented", "force_reset", forceReset)
}

// dismiss fades the current overlay out and schedules its detach after
// the fade duration. Callers hold k.mu.
//
// The root reference is cleared synchronously, so a second dismiss before
// the pending detach fires finds no live overlay and is a safe no-op;
// nothing can double-schedule removal or double-clear state.
func (k *Keeper) dismiss(storeDismissal bool) {
	if k.inert || k.st != stateVisible || k.root == nil {
		return
	}

	root := k.root
	k.root = nil
	k.st = stateFading

	k.doc.SetStyle(root, "opacity", "0")
	k.doc.SetStyle(root, "pointer-events", "none")

	if storeDismissal {
		if err := k.store.Set(dismissedKey, "1"); err != nil {
			k.logger.Warn("introveil: store dismissal", "error", err)
		}
	}

	// Resume the conversation context; a missing composer is expected
	// absence, not an error.
	if composer := k.doc.QueryFirst(k.cfg.ComposerSelector); composer != nil {
		k.doc.Focus(composer)
	}

	// Detach once the declared transition has elapsed, then let the
	// reconciler install the return control.
	time.AfterFunc(k.cfg.FadeDuration, func() {
		k.mu.Lock()
		defer k.mu.Unlock()
		k.doc.Remove(root)
		if k.st == stateFading {
			k.st = stateAbsent
		}
		k.reconcile()
	})

	k.logger.Debug("introveil: overlay dismissed", "store", storeDismissal)
}

// wireRoot attaches the activation handler of the primary control.
// Re-registering after a document reset is cheap and replaces any stale
// handler.
func (k *Keeper) wireRoot(root *html.Node) {
	if btn := k.doc.ElementByID(enterID); btn != nil && hostdom.Contains(root, btn) {
		k.doc.OnActivate(btn, func() { k.Dismiss(true) })
	}
}
