package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/docroutes/internal/errors"
	"github.com/vango-dev/docroutes/pkg/codec"
)

func convertCmd(c *cli) *cobra.Command {
	var (
		to     string
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a route table between formats",
		Long: `Re-encode the route table as routes.js, JSON, YAML or TOML.

The output format is taken from --to, or from the --output file extension.
Invalid tables are refused unless --force is given.

Examples:
  docroutes convert --to json
  docroutes convert -o routes.yaml
  docroutes convert -s routes.json --to js > routes.js`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(to, output)
			if err != nil {
				return err
			}

			load := c.loadValid
			if force {
				load = c.loadTable
			}
			table, _, err := load(cmd.Context())
			if err != nil {
				return err
			}

			data, err := codec.Encode(format, table)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.New("E901").WithDetail(err.Error()).Wrap(err)
			}
			success(cmd.ErrOrStderr(), "Wrote %s (%s)", output, format)
			return nil
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "output format: js, json, yaml, toml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&force, "force", false, "convert tables that fail validation")

	return cmd
}

// outputFormat picks the target format from --to or the output name.
func outputFormat(to, output string) (codec.Format, error) {
	if to != "" {
		format, err := codec.ParseFormat(to)
		if err != nil {
			return "", err
		}
		if format != codec.FormatAuto {
			return format, nil
		}
	}
	if output != "" && output != "-" {
		return codec.DetectFormat(output)
	}
	if to == "" {
		return codec.FormatJSON, nil
	}
	return "", fmt.Errorf("%w: --to auto needs an --output file name", codec.ErrUnknownFormat)
}
