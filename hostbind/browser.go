package hostbind

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// browserHandle wraps a Rod browser plus the launcher that owns the
// local Chrome process, when one was launched.
type browserHandle struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
}

// connect attaches to a remote Chrome or launches a local headless one.
func connect(cfg Config) (*browserHandle, error) {
	if cfg.Remote != "" {
		b := rod.New().ControlURL(cfg.Remote)
		if err := b.Connect(); err != nil {
			return nil, fmt.Errorf("hostbind: connect remote: %w", err)
		}
		return &browserHandle{browser: b}, nil
	}

	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("hostbind: launch chrome: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("hostbind: connect: %w", err)
	}
	return &browserHandle{browser: b, lnch: l}, nil
}

func (h *browserHandle) close() {
	if h == nil {
		return
	}
	if h.browser != nil {
		h.browser.Close()
	}
	if h.lnch != nil {
		h.lnch.Cleanup()
	}
}

// openTab creates a stealth tab, navigates and waits for load.
func openTab(ctx context.Context, b *rod.Browser, pageURL string, navTimeout time.Duration, logger *slog.Logger) (*rod.Page, error) {
	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("hostbind: create tab: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, navTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("hostbind: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		logger.Warn("hostbind: wait load timeout", "url", pageURL, "error", err)
	}

	return page, nil
}
