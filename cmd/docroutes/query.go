package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/docroutes/pkg/query"
)

func queryCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <jsonpath>",
		Short: "Evaluate a JSONPath expression against a route table",
		Long: `Run a JSONPath expression over the table's JSON form, a bare array of
route entries, and print one result per line. Strings are printed as-is,
other values as JSON.

Examples:
  docroutes query '$[*].path'
  docroutes query "$..[?(@.sidebar == 'tutorialSidebar')].path"
  docroutes query '$..component.hash'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := query.Compile(args[0])
			if err != nil {
				return err
			}

			table, _, err := c.loadTable(cmd.Context())
			if err != nil {
				return err
			}

			results, err := q.Run(table)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), query.Format(results))
			return nil
		},
	}

	return cmd
}
