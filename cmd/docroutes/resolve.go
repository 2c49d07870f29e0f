package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/docroutes/pkg/router"
	"github.com/vango-dev/docroutes/pkg/server"
)

func resolveCmd(c *cli) *cobra.Command {
	var (
		asJSON    bool
		sensitive bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Resolve request paths against a route table",
		Long: `Resolve each request path the way the site's client router does and
print the matching route, its component and the enclosing layouts.

Examples:
  docroutes resolve /docs/api/parse
  docroutes resolve /blog /blog/archive /nowhere
  docroutes resolve --json /docs/api/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("sensitive") {
				c.cfg.Match.Sensitive = sensitive
			}

			table, _, err := c.loadValid(cmd.Context())
			if err != nil {
				return err
			}
			m, err := router.New(table, c.matchOptions()...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var results []*server.MatchResponse
			for _, path := range args {
				match, err := m.Resolve(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				resp := server.NewMatchResponse(path, match)
				if asJSON {
					results = append(results, resp)
					continue
				}
				fmt.Fprintln(out, formatMatch(resp))
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print matches as JSON")
	cmd.Flags().BoolVar(&sensitive, "sensitive", false, "match paths case-sensitively")

	return cmd
}

// formatMatch renders one match on a line:
//
//	/docs/api/parse -> /docs/api/parse  /docs/api/parse@44d  sidebar=tutorialSidebar  layouts=/docs@0e7,/docs@133,/docs@0e9
func formatMatch(m *server.MatchResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s -> %s  %s", m.Request, m.Pattern, m.Component)
	if m.Fallback {
		b.WriteString("  (fallback)")
	}
	if m.Sidebar != "" {
		fmt.Fprintf(&b, "  sidebar=%s", m.Sidebar)
	}
	names := make([]string, 0, len(m.Params))
	for name := range m.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  :%s=%s", name, m.Params[name])
	}
	if len(m.Layouts) > 0 {
		layouts := make([]string, len(m.Layouts))
		for i, l := range m.Layouts {
			layouts[i] = l.Component.String()
		}
		fmt.Fprintf(&b, "  layouts=%s", strings.Join(layouts, ","))
	}
	return b.String()
}
