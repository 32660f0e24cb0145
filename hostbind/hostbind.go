// Package hostbind mirrors a live browser page into a hostdom Document
// and replays the keeper's mutations back onto the page. The core never
// imports this package; it is wired by cmd/introveil in live mode.
//
// Inbound, page mutations are coalesced by an injected MutationObserver
// and trigger full snapshot resyncs (the raw HTML is the source of
// truth). Outbound, document records are translated to DOM operations
// addressed by node path.
package hostbind

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/introveil/hostdom"
	"github.com/hazyhaar/introveil/mutation"
)

const bindingName = "__introveil_binding"

// Config configures a live binding.
type Config struct {
	// Remote is the WebSocket URL of an external Chrome instance.
	// Empty launches a local headless Chrome.
	Remote string

	// NavTimeout caps navigation and page-load waits. Default: 30s.
	NavTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.NavTimeout <= 0 {
		c.NavTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Binding is one live page mirrored into a Document.
type Binding struct {
	cfg      Config
	handle   *browserHandle
	page     *rod.Page
	doc      *hostdom.Document
	outCh    <-chan mutation.Record
	resyncCh chan struct{}
	logger   *slog.Logger

	// serialize runs a document mutation serialized with the keeper's
	// own operations. Defaults to direct invocation until SetSerializer
	// is called.
	serialize func(func())
}

// Attach opens the page, snapshots it into a Document and subscribes to
// the document's outbound records. Call SetSerializer and Run after
// bootstrapping the keeper on the returned document.
func Attach(ctx context.Context, pageURL string, cfg Config) (*Binding, error) {
	cfg.defaults()

	handle, err := connect(cfg)
	if err != nil {
		return nil, err
	}

	page, err := openTab(ctx, handle.browser, pageURL, cfg.NavTimeout, cfg.Logger)
	if err != nil {
		handle.close()
		return nil, err
	}

	raw, err := pageHTML(ctx, page)
	if err != nil {
		handle.close()
		return nil, err
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		handle.close()
		return nil, fmt.Errorf("hostbind: parse url: %w", err)
	}

	doc, err := hostdom.Parse(raw, u.Path)
	if err != nil {
		handle.close()
		return nil, err
	}

	b := &Binding{
		cfg:       cfg,
		handle:    handle,
		page:      page,
		doc:       doc,
		outCh:     doc.Subscribe(1024),
		resyncCh:  make(chan struct{}, 1),
		logger:    cfg.Logger,
		serialize: func(fn func()) { fn() },
	}
	return b, nil
}

// Document returns the mirrored document the keeper bootstraps on.
func (b *Binding) Document() *hostdom.Document { return b.doc }

// SetSerializer installs the function that serializes inbound resyncs
// with the keeper's operations (typically Keeper.Sync).
func (b *Binding) SetSerializer(fn func(func())) {
	if fn != nil {
		b.serialize = fn
	}
}

// Run mirrors both directions until ctx is done.
func (b *Binding) Run(ctx context.Context) error {
	if err := b.injectObserver(ctx); err != nil {
		return err
	}
	go b.listenBinding(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-b.resyncCh:
			b.resync(ctx)

		case rec := <-b.outCh:
			b.apply(ctx, rec)
		}
	}
}

// Close closes the tab and the browser.
func (b *Binding) Close() {
	if b.page != nil {
		b.page.Close()
	}
	b.handle.close()
}

// listenBinding coalesces page-side change signals into resync requests.
func (b *Binding) listenBinding(ctx context.Context) {
	b.page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != bindingName {
			return
		}
		select {
		case b.resyncCh <- struct{}{}:
		default:
		}
	})()
}

// resync replaces the mirrored tree from a fresh page snapshot. The
// following reconciliation pass re-asserts required state; writes that
// the page already carries emit nothing, so resync loops quiesce.
func (b *Binding) resync(ctx context.Context) {
	raw, err := pageHTML(ctx, b.page)
	if err != nil {
		b.logger.Warn("hostbind: snapshot failed", "error", err)
		return
	}
	b.serialize(func() {
		if err := b.doc.Reset(raw); err != nil {
			b.logger.Warn("hostbind: reset failed", "error", err)
		}
	})
	b.logger.Debug("hostbind: resynced", "bytes", len(raw))
}

func pageHTML(ctx context.Context, page *rod.Page) ([]byte, error) {
	res, err := page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("hostbind: get DOM: %w", err)
	}
	return []byte(res.Value.Str()), nil
}
