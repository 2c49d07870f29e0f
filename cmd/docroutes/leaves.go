package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func leavesCmd(c *cli) *cobra.Command {
	var (
		asJSON  bool
		sidebar string
	)

	cmd := &cobra.Command{
		Use:   "leaves",
		Short: "List the pages a route table can render",
		Long: `List every leaf route in match order with its full path, component and
sidebar.

Examples:
  docroutes leaves
  docroutes leaves --sidebar tutorialSidebar
  docroutes leaves --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, _, err := c.loadTable(cmd.Context())
			if err != nil {
				return err
			}

			leaves := table.Leaves()
			if sidebar != "" {
				filtered := leaves[:0]
				for _, l := range leaves {
					if l.Sidebar == sidebar {
						filtered = append(filtered, l)
					}
				}
				leaves = filtered
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(leaves)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tCOMPONENT\tEXACT\tSIDEBAR")
			for _, l := range leaves {
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", l.Path, l.Component, l.Exact, l.Sidebar)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print leaves as JSON")
	cmd.Flags().StringVar(&sidebar, "sidebar", "", "only list leaves in this sidebar")

	return cmd
}
