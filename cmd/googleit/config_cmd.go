package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/googleit/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path, err := a.resolvedConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [key]",
		Short: "Print all settings, or one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				value, err := a.cfg.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, value)
				return nil
			}

			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, key := range config.Keys() {
				value, err := a.cfg.Get(key)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", key, value)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting and save the file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			path, err := a.resolvedConfigPath()
			if err != nil {
				return err
			}
			cfg, err := config.Read(path)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%s = %s\n", args[0], args[1])
			return nil
		},
	})

	return cmd
}

func (a *app) resolvedConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.Path()
}
