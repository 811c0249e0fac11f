// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"os"

	"github.com/dacolabs/pureschema/internal/logging"
	"github.com/dacolabs/pureschema/internal/prompts"
	"github.com/dacolabs/pureschema/internal/runner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type checkOptions struct {
	schema   string
	instance string
	class    string
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a JSON instance against the model generated from a schema",
		Long: `Generate the model of a schema and check a JSON instance against it:
multiplicities, property types, nested objects and every generated constraint.
Exits with an error when the instance does not conform.`,
		Example: `  pureschema check --schema schemas/person.json --instance data/ada.json

  # Check against a class other than the schema root
  pureschema check --schema schemas/person.json --instance data/home.json --class Address`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.schema, "schema", "", "Schema file")
	cmd.Flags().StringVar(&opts.instance, "instance", "", "JSON instance file")
	cmd.Flags().StringVar(&opts.class, "class", "", "Class to check against (default: the schema root)")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("instance")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	logger := logging.From(cmd.Context())

	m, class, err := runner.SchemaModel(opts.schema)
	if err != nil {
		return err
	}
	if opts.class != "" {
		class = m.Resolve(opts.class)
	}
	if m.Class(class) == nil {
		return fmt.Errorf("unknown class %q", opts.class)
	}
	data, err := os.ReadFile(opts.instance) //nolint:gosec // path is provided by the user
	if err != nil {
		return fmt.Errorf("failed to read instance: %w", err)
	}
	logger.Debug("checking instance", zap.String("class", class), zap.Int("constraints", len(m.AllConstraints(m.Class(class)))))

	violations, err := runner.CheckInstance(m, class, data)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(violations) == 0 {
		prompts.PrintResult(out, []prompts.ResultField{
			{Label: "Class", Value: class},
			{Label: "Instance", Value: opts.instance},
		}, "Instance conforms")
		return nil
	}
	lines := make([]string, len(violations))
	for i, v := range violations {
		lines[i] = v.String()
	}
	prompts.PrintFailures(out, "Violations:", lines)
	return fmt.Errorf("instance does not conform: %d violation(s)", len(violations))
}
