// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dacolabs/pureschema/internal/config"
	"github.com/dacolabs/pureschema/internal/session"
	"github.com/spf13/cobra"
)

type bindingsOptions struct {
	output string
}

// bindingRow is one binding with the jobs that use it.
type bindingRow struct {
	Name      string   `json:"name" yaml:"name"`
	Package   string   `json:"package" yaml:"package"`
	SchemaSet string   `json:"schemaSet,omitempty" yaml:"schemaSet,omitempty"`
	Files     []string `json:"files,omitempty" yaml:"files,omitempty"`
	Model     string   `json:"model,omitempty" yaml:"model,omitempty"`
	Jobs      []string `json:"jobs,omitempty" yaml:"jobs,omitempty"`
}

func newBindingsCmd() *cobra.Command {
	opts := &bindingsOptions{}

	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "List the schema/model bindings of the project",
		Long:  `List the bindings defined in pureschema.yaml with their packages, schema sets and the jobs that use them.`,
		Example: `  # List bindings in table format
  pureschema bindings

  # List bindings as JSON
  pureschema bindings -o json`,
		PreRunE: session.PreRunLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runBindings(cmd.OutOrStdout(), ctx.Config, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json, yaml)")

	return cmd
}

func runBindings(w io.Writer, cfg *config.Config, opts *bindingsOptions) error {
	rows := bindingRows(cfg)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No bindings defined.")
		return err
	}

	switch opts.output {
	case "json":
		return writeJSON(w, rows)
	case "yaml":
		return writeYAML(w, rows)
	case "table":
		return printBindingsTable(w, rows)
	}
	return fmt.Errorf("unknown output format %q", opts.output)
}

func bindingRows(cfg *config.Config) []bindingRow {
	var rows []bindingRow
	for _, name := range slices.Sorted(maps.Keys(cfg.Bindings)) {
		b := cfg.Bindings[name]
		row := bindingRow{Name: name, Package: b.Package, SchemaSet: b.SchemaSet, Model: b.Model}
		if set, ok := cfg.SchemaSets[b.SchemaSet]; ok {
			row.Files = set.Files
		}
		for i, job := range cfg.ToModel {
			if job.TargetBinding == name {
				row.Jobs = append(row.Jobs, fmt.Sprintf("toModel[%d]", i))
			}
		}
		for i, job := range cfg.ToSchema {
			if job.TargetBinding == name {
				row.Jobs = append(row.Jobs, fmt.Sprintf("toSchema[%d]", i))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func printBindingsTable(w io.Writer, rows []bindingRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tPACKAGE\tSCHEMA SET\tMODEL\tJOBS")
	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, r.Package, dash(r.SchemaSet), dash(r.Model), dash(strings.Join(r.Jobs, ", ")))
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
