package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucasefe/dbdiagram"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <file> [file...]",
	Short: "Rewrite DBML files in canonical form",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().BoolP("write", "w", false, "rewrite files in place instead of printing")
	fmtCmd.Flags().Bool("check", false, "fail if any file is not in canonical form")
}

func runFmt(cmd *cobra.Command, args []string) error {
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	if write && check {
		return fmt.Errorf("fmt: --write cannot be used with --check")
	}

	var unformatted []string
	for _, path := range args {
		src, err := readSource(path)
		if err != nil {
			return err
		}
		out, err := dbdiagram.Format(src)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		switch {
		case check:
			if out != src {
				unformatted = append(unformatted, path)
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
		case write && path != "-":
			if out == src {
				continue
			}
			if err := os.WriteFile(path, []byte(out), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		default:
			fmt.Fprint(cmd.OutOrStdout(), out)
		}
	}
	if len(unformatted) > 0 {
		return fmt.Errorf("fmt: %d files are not formatted", len(unformatted))
	}
	return nil
}
