package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/googleit/internal/clip"
	"github.com/example/googleit/internal/search"
)

func newQueryCmd(a *app) *cobra.Command {
	var fromClipboard bool

	cmd := &cobra.Command{
		Use:   "query [url...]",
		Short: "Print the site query and search URL for a list of URLs",
		Long:  "Prints the site: query built from the given URLs, or from the URLs on the clipboard with --clipboard, followed by the search URL. The Zotero library is not read.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var urls []string
			for _, arg := range args {
				if arg != "" {
					urls = append(urls, arg)
				}
			}
			if fromClipboard {
				fromClip, err := clip.ReadURLs()
				if err != nil {
					return err
				}
				urls = append(urls, fromClip...)
			}
			if len(urls) == 0 {
				return errors.New("no URLs given")
			}

			query := search.BuildQuery(urls)
			engine := search.Engine{Endpoint: a.cfg.Search.Endpoint}
			fmt.Fprintln(a.stdout, query)
			fmt.Fprintln(a.stdout, engine.URL(query))
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromClipboard, "clipboard", false, "read URLs from the clipboard")
	return cmd
}
