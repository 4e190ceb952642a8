//go:build cgo || windows
// +build cgo windows

package menu

import (
	"context"
	"runtime"
	"sync"

	"github.com/getlantern/systray"
)

type systrayController struct {
	actions trayActions

	mu      sync.Mutex
	entries []trayEntry
}

type trayEntry struct {
	item   *systray.MenuItem
	cancel context.CancelFunc
}

func newTrayController(actions trayActions) trayController {
	return &systrayController{actions: actions}
}

func (c *systrayController) Run(ctx context.Context, updates <-chan UpdatePayload) error {
	done := make(chan struct{})

	go systray.Run(func() {
		icon := trayIcon("")
		if runtime.GOOS == "darwin" {
			systray.SetTemplateIcon(icon, icon)
		} else {
			systray.SetIcon(icon)
		}
		systray.SetTooltip("Google It")

		go c.listen(ctx, updates)
	}, func() {
		c.shutdown()
		close(done)
	})

	select {
	case <-ctx.Done():
		systray.Quit()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (c *systrayController) listen(ctx context.Context, updates <-chan UpdatePayload) {
	for {
		select {
		case <-ctx.Done():
			systray.Quit()
			return
		case payload, ok := <-updates:
			if !ok {
				systray.Quit()
				return
			}
			c.render(ctx, payload)
		}
	}
}

// render hides the previous menu and builds a fresh one. systray cannot
// remove items, so hidden items stay allocated until exit.
func (c *systrayController) render(ctx context.Context, payload UpdatePayload) {
	c.mu.Lock()
	old := c.entries
	c.entries = nil
	c.mu.Unlock()

	for _, entry := range old {
		entry.cancel()
		entry.item.Hide()
	}

	var entries []trayEntry
	for _, n := range buildTree(payload) {
		entries = append(entries, c.addNode(ctx, n, nil)...)
	}

	separator := systray.AddMenuItem("—", "")
	separator.Disable()
	entries = append(entries, trayEntry{item: separator, cancel: func() {}})

	refresh := systray.AddMenuItem("Refresh library", "Reload collections and items from Zotero")
	entries = append(entries, c.watch(ctx, refresh, c.actions.Refresh))

	quit := systray.AddMenuItem("Quit", "Exit Google It")
	entries = append(entries, c.watch(ctx, quit, systray.Quit))

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
}

func (c *systrayController) addNode(ctx context.Context, n node, parent *systray.MenuItem) []trayEntry {
	if n.Separator {
		n = node{Label: "—", Disabled: true}
	}

	var mi *systray.MenuItem
	if parent == nil {
		mi = systray.AddMenuItem(n.Label, n.Tooltip)
	} else {
		mi = parent.AddSubMenuItem(n.Label, n.Tooltip)
	}
	if n.Icon != "" {
		mi.SetIcon(trayIcon(n.Icon))
	}
	if n.Disabled {
		mi.Disable()
	}

	var entry trayEntry
	if n.Action != nil {
		inv := *n.Action
		entry = c.watch(ctx, mi, func() { c.actions.Invoke(inv) })
	} else {
		entry = c.watch(ctx, mi, nil)
	}

	entries := []trayEntry{entry}
	for _, child := range n.Children {
		entries = append(entries, c.addNode(ctx, child, mi)...)
	}
	return entries
}

// watch runs onClick for each click on mi until the entry is replaced.
func (c *systrayController) watch(ctx context.Context, mi *systray.MenuItem, onClick func()) trayEntry {
	ctxItem, cancel := context.WithCancel(ctx)
	go func(ch <-chan struct{}) {
		for {
			select {
			case <-ctxItem.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				if onClick != nil {
					onClick()
				}
			}
		}
	}(mi.ClickedCh)
	return trayEntry{item: mi, cancel: cancel}
}

func (c *systrayController) shutdown() {
	c.mu.Lock()
	entries := c.entries
	c.entries = nil
	c.mu.Unlock()

	for _, entry := range entries {
		entry.cancel()
	}
}
