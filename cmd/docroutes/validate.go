package main

import (
	"github.com/spf13/cobra"
)

func validateCmd(c *cli) *cobra.Command {
	var allowMissingFallback bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a route table against the structural rules",
		Long: `Load the route table and check that sibling paths are unique, that
wildcard routes come last, that exact routes have no nested routes and that
the table ends with a '*' fallback.

Every problem is reported, not just the first.

Examples:
  docroutes validate
  docroutes validate -s build/.docusaurus/routes.js
  docroutes validate -s s3://my-site/routes.json --allow-missing-fallback`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("allow-missing-fallback") {
				c.cfg.Validation.AllowMissingFallback = allowMissingFallback
			}

			table, doc, err := c.loadValid(cmd.Context())
			if err != nil {
				return err
			}

			stats := table.Stats()
			out := cmd.OutOrStdout()
			success(out, "%s is valid", doc.Name)
			info(out, "%d entries, %d leaves, depth %d", stats.Entries, stats.Leaves, stats.MaxDepth)
			info(out, "fingerprint %s", table.Fingerprint())
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowMissingFallback, "allow-missing-fallback", false, "accept tables without a trailing '*' route")

	return cmd
}
