package hostbind

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/introveil/mutation"
)

//go:embed observer.js
var observerJS string

// injectObserver installs the page-side change signal: a binding the page
// can call plus a debounced MutationObserver that calls it.
func (b *Binding) injectObserver(ctx context.Context) error {
	page := b.page.Context(ctx)
	if err := (proto.RuntimeAddBinding{Name: bindingName}).Call(page); err != nil {
		b.logger.Warn("hostbind: addBinding failed (may already exist)", "error", err)
	}
	if _, err := page.Eval(observerJS); err != nil {
		return fmt.Errorf("hostbind: inject observer: %w", err)
	}
	return nil
}

// apply replays one document record on the live page. Records the page
// cannot honour (detached paths, races with user edits) are logged and
// skipped; the next resync restores agreement.
func (b *Binding) apply(ctx context.Context, rec mutation.Record) {
	var err error

	switch rec.Op {
	case mutation.OpDocReset:
		// Resets originate from page snapshots; never echoed back.
		return

	case mutation.OpInsert:
		err = b.evalAt(ctx, parentPath(rec.Path),
			`(el, html) => { el.insertAdjacentHTML("beforeend", html); }`, rec.HTML)

	case mutation.OpRemove:
		err = b.evalAt(ctx, rec.Path, `(el) => { el.remove(); }`)

	case mutation.OpText:
		err = b.evalAt(ctx, rec.Path,
			`(el, text) => { el.textContent = text; }`, rec.Value)

	case mutation.OpAttr:
		err = b.evalAt(ctx, rec.Path,
			`(el, name, value) => { el.setAttribute(name, value); }`, rec.Name, rec.Value)

	case mutation.OpAttrDel:
		err = b.evalAt(ctx, rec.Path,
			`(el, name) => { el.removeAttribute(name); }`, rec.Name)
	}

	if err != nil {
		b.logger.Warn("hostbind: apply failed",
			"op", string(rec.Op), "path", rec.Path, "error", err)
	}
}

// evalAt resolves the node at path via XPath and runs fn with it as the
// first argument.
func (b *Binding) evalAt(ctx context.Context, path, fn string, args ...any) error {
	js := fmt.Sprintf(`(path, ...rest) => {
		const el = document.evaluate(path, document, null,
			XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		if (!el) { throw new Error("no node at " + path); }
		return (%s)(el, ...rest);
	}`, fn)

	callArgs := append([]any{path}, args...)
	_, err := b.page.Context(ctx).Eval(js, callArgs...)
	return err
}

// parentPath drops the last segment of a node path; inserts address the
// parent container.
func parentPath(path string) string {
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return path
	}
	return path[:i]
}
