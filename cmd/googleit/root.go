package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/googleit/internal/clip"
	"github.com/example/googleit/internal/command"
	"github.com/example/googleit/internal/config"
	"github.com/example/googleit/internal/host"
	"github.com/example/googleit/internal/logging"
	"github.com/example/googleit/internal/menu"
	"github.com/example/googleit/internal/search"
	"github.com/example/googleit/internal/zotero"
)

// app carries the global flags and the loaded configuration for one
// execution of the root command.
type app struct {
	configPath string
	dbPath     string
	debug      bool
	print      bool
	copy       bool
	gui        bool

	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:          "googleit",
		Short:        "Launch Google site searches from Zotero collections and items",
		Long:         "googleit builds a Google query restricted to the sites of the URLs stored in a Zotero collection, saved search or set of items, and opens it in the browser. Without a subcommand it runs the system tray.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTray(cmd.Context())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "configuration file (default $GOOGLEIT_CONFIG_PATH or the user config dir)")
	flags.StringVar(&a.dbPath, "db", "", "path to zotero.sqlite (default from config, $GOOGLEIT_ZOTERO_DB or ~/Zotero/zotero.sqlite)")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&a.print, "print", false, "print the search URL instead of opening it")
	flags.BoolVar(&a.copy, "copy", false, "also copy the search URL to the clipboard")
	flags.BoolVar(&a.gui, "gui", false, "show alerts in a dialog instead of on stderr")

	root.AddCommand(
		newCollectionCmd(a),
		newSavedSearchCmd(a),
		newItemsCmd(a),
		newQueryCmd(a),
		newListCmd(a),
		newTrayCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup() error {
	if a.debug || envBool("GOOGLEIT_DEBUG") {
		logging.EnableDebug()
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	a.cfg = cfg
	return nil
}

func envBool(name string) bool {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return false
	}
	enabled, err := strconv.ParseBool(value)
	return err == nil && enabled
}

func (a *app) libraryPath() (string, error) {
	if a.dbPath != "" {
		return a.dbPath, nil
	}
	if a.cfg != nil && a.cfg.Library.Path != "" {
		return a.cfg.Library.Path, nil
	}
	return zotero.DefaultPath()
}

func (a *app) openLibrary() (*zotero.Library, error) {
	path, err := a.libraryPath()
	if err != nil {
		return nil, err
	}
	return zotero.Open(path)
}

func (a *app) launcher() host.Launcher {
	var launcher host.Launcher = menu.BrowserLauncher{}
	if a.print || a.cfg.Launch.Print {
		launcher = menu.PrintLauncher{W: a.stdout}
	}
	if a.copy || a.cfg.Launch.Copy {
		launcher = clip.CopyLauncher{Next: launcher}
	}
	return launcher
}

func (a *app) alerter() host.Alerter {
	if a.gui {
		return menu.DialogAlerter{}
	}
	return menu.WriterAlerter{W: a.stderr}
}

// registry registers both search commands against pane.
func (a *app) registry(pane host.Pane, alerter host.Alerter) (*host.Registry, error) {
	registry := host.NewRegistry()
	_, err := command.Register(registry, command.Deps{
		Pane:     pane,
		Alerter:  alerter,
		Launcher: a.launcher(),
		Engine:   search.Engine{Endpoint: a.cfg.Search.Endpoint},
		AddonRef: a.cfg.AddonRef,
	})
	if err != nil {
		return nil, err
	}
	return registry, nil
}

// invoke selects sel and runs the listener registered under id, the way the
// tray does on a click.
func (a *app) invoke(ctx context.Context, id string, sel host.Selection) error {
	state := &host.State{}
	registry, err := a.registry(state, a.alerter())
	if err != nil {
		return err
	}
	state.Select(sel)
	return registry.Invoke(ctx, id)
}
