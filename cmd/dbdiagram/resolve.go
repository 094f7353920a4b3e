package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lucasefe/dbdiagram/diag"
	"github.com/lucasefe/dbdiagram/resolver"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] <file>",
	Short: "Print the resolved model of a DBML file",
	Long: `Resolve a DBML file and print its normalized model. Diagnostics are
written to stderr; the model is printed even when the source has errors.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringP("format", "f", "json", "output format (json|yaml)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	_, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	src, err := readSource(args[0])
	if err != nil {
		return err
	}

	res := resolver.Resolve(src, resolver.WithLogger(logger))
	if len(res.Diagnostics) > 0 {
		errOut := cmd.ErrOrStderr()
		color, err := useColor(cmd, errOut)
		if err != nil {
			return err
		}
		if err := diag.NewPrinter(errOut, color).Print(args[0], src, res.Diagnostics); err != nil {
			return err
		}
	}
	return writeStructured(cmd.OutOrStdout(), format, res.Model)
}

// writeStructured encodes v as indented JSON or as YAML. YAML keys follow the json
// tags since the document is converted from JSON.
func writeStructured(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	switch format {
	case "json":
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return fmt.Errorf("failed to convert to yaml: %w", err)
		}
		blockStyle(&node)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (want json or yaml)", format)
	}
}

// blockStyle drops the flow and quoting styles the JSON input left on n. Strings that
// would read back as another type are still quoted by the encoder.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
