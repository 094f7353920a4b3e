package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lucasefe/dbdiagram"
	"github.com/lucasefe/dbdiagram/config"
	"github.com/lucasefe/dbdiagram/model"
	"github.com/lucasefe/dbdiagram/resolver"
	"github.com/lucasefe/dbdiagram/snapshot"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] <file>",
	Short: "Render a DBML file as an SVG diagram",
	Long: `Render a DBML file, or a snapshot written by "dbdiagram snapshot", as an
SVG diagram. Layout and colors come from the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	renderCmd.Flags().Bool("snapshot", false, "read the input as a snapshot instead of DBML")
}

func runRender(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	fromSnapshot, err := cmd.Flags().GetBool("snapshot")
	if err != nil {
		return err
	}
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	var m *model.ProjectModel
	if fromSnapshot {
		s, err := snapshot.Load(args[0])
		if err != nil {
			return err
		}
		m = s.Model
	} else {
		src, err := readSource(args[0])
		if err != nil {
			return err
		}
		m = resolver.Resolve(src, resolver.WithLogger(logger)).Model
	}

	return renderTo(output, m, cfg, logger)
}

func renderTo(output string, m *model.ProjectModel, cfg *config.Config, logger *slog.Logger) (err error) {
	w, err := openOutput(output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", output, cerr)
		}
	}()
	return dbdiagram.RenderSVG(w, m, cfg, logger)
}
