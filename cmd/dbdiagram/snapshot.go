package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasefe/dbdiagram/resolver"
	"github.com/lucasefe/dbdiagram/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [flags] <file>",
	Short: "Save a DBML file with its resolved model",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringP("output", "o", "", "snapshot file (required)")
	_ = snapshotCmd.MarkFlagRequired("output")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
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
	if err := snapshot.Save(output, snapshot.New(src, res.Model)); err != nil {
		return err
	}
	logger.Info("snapshot written", "path", output, "diagnostics", len(res.Diagnostics))
	if res.HasErrors() {
		return fmt.Errorf("%s has errors; snapshot holds a partial model", args[0])
	}
	return nil
}
