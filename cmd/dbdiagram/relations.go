package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lucasefe/dbdiagram/model"
	"github.com/lucasefe/dbdiagram/relation"
	"github.com/lucasefe/dbdiagram/resolver"
)

var relationsCmd = &cobra.Command{
	Use:   "relations [flags] <file>",
	Short: "List the field-to-field relations a diagram would draw",
	Args:  cobra.ExactArgs(1),
	RunE:  runRelations,
}

func init() {
	relationsCmd.Flags().StringP("format", "f", "text", "output format (text|json|yaml)")
}

type relationRow struct {
	relation.Relation
	From     string `json:"from"`
	Operator string `json:"operator"`
	To       string `json:"to"`
}

func runRelations(cmd *cobra.Command, args []string) error {
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

	m := resolver.Resolve(src, resolver.WithLogger(logger)).Model
	rows := relationRows(m, relation.Derive(m))

	if format != "text" {
		return writeStructured(cmd.OutOrStdout(), format, rows)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REF\tFROM\tOP\tTO")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.RefID, r.From, r.Operator, r.To)
	}
	return tw.Flush()
}

func relationRows(m *model.ProjectModel, relations []relation.Relation) []relationRow {
	fields := relation.FieldIndex(m)
	operators := make(map[model.ID]string)
	for _, s := range m.Schemas {
		for _, ref := range s.Refs {
			if len(ref.Endpoints) > 0 {
				operators[ref.ID] = ref.Endpoints[0].Relation
			}
		}
	}

	rows := make([]relationRow, 0, len(relations))
	for _, r := range relations {
		rows = append(rows, relationRow{
			Relation: r,
			From:     fieldName(fields[r.FromFieldID]),
			Operator: operators[r.RefID],
			To:       fieldName(fields[r.ToFieldID]),
		})
	}
	return rows
}

func fieldName(f relation.FieldRef) string {
	if f.Table == nil || f.Field == nil {
		return "?"
	}
	return model.QualifiedName(f.Schema, f.Table.Name) + "." + f.Field.Name
}
