package main

import (
	"encoding/json"
	"strings"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/vango-dev/docroutes/pkg/routetable"
)

type statsOutput struct {
	routetable.Stats

	Source      string `json:"source"`
	Size        int64  `json:"size"`
	Fingerprint string `json:"fingerprint"`
}

func statsCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize a route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, doc, err := c.loadTable(cmd.Context())
			if err != nil {
				return err
			}

			s := statsOutput{
				Stats:       table.Stats(),
				Source:      doc.Name,
				Size:        doc.Size(),
				Fingerprint: table.Fingerprint(),
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}

			info(out, "Source:      %s (%s)", s.Source, units.HumanSize(float64(s.Size)))
			info(out, "Entries:     %d", s.Entries)
			info(out, "Leaves:      %d", s.Leaves)
			info(out, "Branches:    %d", s.Branches)
			info(out, "Exact:       %d", s.Exact)
			info(out, "Wildcards:   %d", s.Wildcards)
			info(out, "Max depth:   %d", s.MaxDepth)
			if len(s.Sidebars) > 0 {
				info(out, "Sidebars:    %s", strings.Join(s.Sidebars, ", "))
			}
			info(out, "Fingerprint: %s", s.Fingerprint)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print stats as JSON")

	return cmd
}
