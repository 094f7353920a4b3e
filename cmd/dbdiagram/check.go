package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lucasefe/dbdiagram/diag"
	"github.com/lucasefe/dbdiagram/resolver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file> [file...]",
	Short: "Report syntax and reference problems in DBML files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "text", "output format (text|json)")
	checkCmd.Flags().Int("jobs", 0, "files resolved in parallel (0 = GOMAXPROCS)")
	checkCmd.Flags().Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
}

type checkResult struct {
	Path        string            `json:"path"`
	Source      string            `json:"-"`
	Diagnostics []diag.Diagnostic `json:"-"`
	Markers     []diag.Marker     `json:"markers"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	_, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	r := resolver.New(resolver.WithMaxDiagnostics(maxDiagnostics), resolver.WithLogger(logger))

	// each goroutine owns its slot
	results := make([]checkResult, len(args))
	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(min(jobs, len(args)))
	for i, path := range args {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := readSource(path)
			if err != nil {
				return err
			}
			res := r.Resolve(src)
			results[i] = checkResult{
				Path:        path,
				Source:      src,
				Diagnostics: res.Diagnostics,
				Markers:     diag.ToMarkers(res.Diagnostics),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var all []diag.Diagnostic
	for _, res := range results {
		all = append(all, res.Diagnostics...)
	}

	switch format {
	case "text":
		out := cmd.OutOrStdout()
		color, err := useColor(cmd, out)
		if err != nil {
			return err
		}
		printer := diag.NewPrinter(out, color)
		for _, res := range results {
			if err := printer.Print(res.Path, res.Source, res.Diagnostics); err != nil {
				return err
			}
		}
		if err := printer.Summary(all); err != nil {
			return err
		}
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q (want text or json)", format)
	}

	if errs, _ := diag.Count(all); errs > 0 {
		return fmt.Errorf("check failed with %d errors", errs)
	}
	return nil
}
