// Package scrapers implements the command-line interface for inspecting
// the configured scrapers. The list command displays them in a formatted
// table.
package scrapers

import (
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/uniwatch/uniwatch/cmd/common"
	"github.com/uniwatch/uniwatch/internal/config"
)

// Command returns the scrapers command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrapers",
		Short: "Manage configured scrapers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newListCommand())
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured scrapers",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return err
			}

			all := deps.Config.GetScrapers()
			if len(all) == 0 {
				deps.Logger.Info("No scrapers configured")
				return nil
			}

			renderTable(all, deps.Config.GetWatchConfig())
			return nil
		},
	}
}

// renderTable formats and displays the scrapers in a table.
func renderTable(all map[string]config.ScraperConfig, watch *config.WatchConfig) {
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Name", "Strategy", "URL", "Enabled", "Max Posts", "Webhook"})

	for _, name := range names {
		sc := all[name]

		maxPosts := sc.MaxPosts
		if maxPosts == 0 {
			maxPosts = watch.MaxPosts
		}
		webhook := sc.Webhook
		if webhook == "" {
			webhook = watch.Webhook
		}

		t.AppendRow(table.Row{
			name,
			sc.Strategy,
			sc.URL,
			sc.Enabled,
			maxPosts,
			webhook,
		})
	}

	t.Render()
}
