package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/googleit/internal/host"
	"github.com/example/googleit/internal/menu"
)

func newTrayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tray",
		Short: "Run the system tray menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTray(cmd.Context())
		},
	}
}

// runTray serves the tray until interrupted. Alerts always use dialogs since
// the tray has no terminal to write to.
func (a *app) runTray(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := a.libraryPath()
	if err != nil {
		return err
	}
	interval, err := a.cfg.RefreshInterval()
	if err != nil {
		return err
	}

	state := &host.State{}
	registry, err := a.registry(state, menu.DialogAlerter{})
	if err != nil {
		return err
	}

	source := &menu.LibrarySource{Path: path, RecentItems: a.cfg.RecentItems()}
	defer source.Close()

	log.Printf("Google It tray using library %s", path)
	runner := menu.NewRunner(source, registry, state, interval)
	if err := runner.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
