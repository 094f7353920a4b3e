package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "dbdiagram",
	Short: "Resolve, check and render DBML database diagrams",
	Long: `dbdiagram reads DBML documents, reports problems in them, and renders
their tables and relationships as SVG. It can also generate DBML from a
live PostgreSQL database.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(relationsCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(introspectCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
