// Package overlay implements the intro-overlay keeper: the state machine
// governing overlay presentation and dismissal, the reconciliation loop
// that re-asserts required host-tree state on every mutation batch, and
// the session-scoped dismissal memory.
//
// The host tree is rewritten by a component outside the keeper's control,
// so every invariant here ("exactly zero or one return control", "at most
// one attached overlay root") is enforced as level-triggered
// reconciliation, never as one-time setup.
package overlay

import (
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/net/html"

	"github.com/hazyhaar/introveil/hostdom"
	"github.com/hazyhaar/introveil/session"
)

// dismissedKey is the session memory key recording a dismissal; the value
// is always "1".
const dismissedKey = "introveil.dismissed"

// overlay visibility state machine: absent → visible → fading → absent.
type state int

const (
	stateAbsent state = iota
	stateVisible
	stateFading
)

func (s state) String() string {
	switch s {
	case stateVisible:
		return "visible"
	case stateFading:
		return "fading"
	default:
		return "absent"
	}
}

// Keeper owns the overlay lifecycle for one host document. All lifecycle
// operations, reconciliation passes and key handling are serialized under
// one mutex; the host document is never touched outside it.
type Keeper struct {
	mu     sync.Mutex
	doc    *hostdom.Document
	store  session.Store
	cfg    *Config
	logger *slog.Logger

	st   state
	root *html.Node // current overlay root; nil unless stateVisible

	inert         bool // share view: the keeper performs no action at all
	observing     bool
	hiddenMatches int

	seq       atomic.Uint64
	done      chan struct{}
	closeOnce sync.Once
}

// Bootstrap wires a Keeper to the document: ensures the fade keyframes
// exist, runs one reconciliation pass, presents the overlay unless this
// session already dismissed it, and installs the change observer. On
// share-view paths the keeper is returned inert and never touches the
// document.
func Bootstrap(doc *hostdom.Document, store session.Store, cfg *Config, logger *slog.Logger) *Keeper {
	if cfg == nil {
		cfg = &Config{}
	}
	c := *cfg
	c.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	k := &Keeper{
		doc:    doc,
		store:  store,
		cfg:    &c,
		logger: logger,
		done:   make(chan struct{}),
	}

	if strings.HasPrefix(doc.Path(), c.SharePrefix) {
		k.inert = true
		logger.Info("introveil: share view, keeper inert", "path", doc.Path())
		return k
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	ensureKeyframes(doc)
	k.reconcile()

	_, dismissed, err := store.Get(dismissedKey)
	if err != nil {
		k.logger.Warn("introveil: read dismissal flag", "error", err)
		dismissed = false
	}
	if !dismissed {
		k.present(false)
	}

	k.installObserver()
	doc.OnKey(k.handleKey)

	logger.Info("introveil: bootstrapped",
		"path", doc.Path(), "overlay", k.st.String(), "dismissed", dismissed)
	return k
}

// Show force-presents the overlay, clearing the session dismissal flag.
func (k *Keeper) Show() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.present(true)
}

// Hide dismisses the overlay without recording a dismissal.
func (k *Keeper) Hide() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.dismiss(false)
}

// Reset clears the dismissal flag and presents as on a fresh session.
func (k *Keeper) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.inert {
		return
	}
	if err := k.store.Delete(dismissedKey); err != nil {
		k.logger.Warn("introveil: clear dismissal", "error", err)
	}
	k.present(false)
}

// Present shows the overlay; forceReset additionally clears the
// dismissal flag first.
func (k *Keeper) Present(forceReset bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.present(forceReset)
}

// Dismiss fades the overlay out; storeDismissal records the dismissal in
// session memory. Calling without a live overlay is a no-op.
func (k *Keeper) Dismiss(storeDismissal bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.dismiss(storeDismissal)
}

// Close stops the change observer goroutine. The page-lifetime deployment
// never calls it; tests do.
func (k *Keeper) Close() {
	k.closeOnce.Do(func() { close(k.done) })
}

// Sync runs fn serialized with the keeper's own operations. Live
// bindings use it to mutate the document from their goroutine without
// racing a reconciliation pass.
func (k *Keeper) Sync(fn func()) {
	k.mu.Lock()
	defer k.mu.Unlock()
	fn()
}

// State is a point-in-time view of the keeper for the debug surface.
type State struct {
	Overlay        string `json:"overlay"`
	ReturnControl  bool   `json:"return_control"`
	HiddenControls int    `json:"hidden_controls"`
	Dismissed      bool   `json:"dismissed"`
	Path           string `json:"path"`
	Inert          bool   `json:"inert"`
}

// State reports the current keeper state.
func (k *Keeper) State() State {
	k.mu.Lock()
	defer k.mu.Unlock()

	_, dismissed, err := k.store.Get(dismissedKey)
	if err != nil {
		k.logger.Warn("introveil: read dismissal flag", "error", err)
	}
	return State{
		Overlay:        k.st.String(),
		ReturnControl:  k.doc.ElementByID(returnID) != nil,
		HiddenControls: k.hiddenMatches,
		Dismissed:      dismissed,
		Path:           k.doc.Path(),
		Inert:          k.inert,
	}
}

// Snapshot renders the current host document.
func (k *Keeper) Snapshot() []byte {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.doc.HTML()
}

// handleKey implements the overlay's keyboard contract while it is open:
// Escape or unmodified Enter dismisses (persisting), Tab wraps focus
// within the overlay's focusable set. All three apply only while focus is
// inside the overlay.
func (k *Keeper) handleKey(key hostdom.Key) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.st != stateVisible || k.root == nil {
		return false
	}
	focused := k.doc.Focused()
	if focused == nil || !hostdom.Contains(k.root, focused) {
		return false
	}

	switch key.Name {
	case "Escape":
		k.dismiss(true)
		return true

	case "Enter":
		if key.Modified() || key.Shift {
			return false
		}
		k.dismiss(true)
		return true

	case "Tab":
		els := k.doc.Focusables(k.root)
		if len(els) == 0 {
			return true
		}
		idx := -1
		for i, el := range els {
			if el == focused {
				idx = i
				break
			}
		}
		if key.Shift {
			if idx <= 0 {
				k.doc.Focus(els[len(els)-1])
			} else {
				k.doc.Focus(els[idx-1])
			}
		} else {
			k.doc.Focus(els[(idx+1)%len(els)])
		}
		return true
	}

	return false
}
