package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lucasefe/dbdiagram"
	"github.com/lucasefe/dbdiagram/config"
	"github.com/lucasefe/dbdiagram/diagram"
	"github.com/lucasefe/dbdiagram/resolver"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <file>",
	Short: "Re-render a DBML file every time it changes",
	Long: `Watch a DBML file and rewrite the SVG output each time the file is saved.
The same diagram instance is kept across edits, so field ids that survive an
edit keep their registry entries.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("output", "o", "", "SVG output file (required)")
	_ = watchCmd.MarkFlagRequired("output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	path := filepath.Clean(args[0])

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// editors often replace the file, so watch its directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to add directory to watcher: %w", err)
	}

	c := dbdiagram.NewController(cfg, logger)
	defer c.Close()
	r := resolver.New(resolver.WithLogger(logger))

	rebuild := func() {
		if err := renderWatched(r, c, cfg, path, output); err != nil {
			logger.Error("render failed", "path", path, "error", err)
			return
		}
		logger.Info("diagram written", "path", output, "tables", len(c.Placements()), "relations", len(c.Relations()))
	}
	rebuild()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("source changed", "path", path, "op", event.Op.String())
			rebuild()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

// renderWatched resolves path into c and replaces output with the new frame. The
// output is left untouched when rendering fails.
func renderWatched(r *resolver.Resolver, c *diagram.Controller, cfg *config.Config, path, output string) error {
	src, err := readSource(path)
	if err != nil {
		return err
	}
	c.SetModel(r.Resolve(src).Model)

	var buf bytes.Buffer
	if err := dbdiagram.RenderController(&buf, c, cfg); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}
