// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package commands contains all CLI command definitions.
package commands

import (
	"github.com/dacolabs/pureschema/internal/logging"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose        bool
	nonInteractive bool
}

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "pureschema",
		Short: "Generate Legend Pure models from JSON Schema and back",
		Long: `pureschema turns JSON Schema draft-07 documents into Legend Pure classes,
enumerations, constraints and predicate functions, and generates JSON Schema
documents from a model.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(opts.verbose)
			if err != nil {
				return err
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.From(cmd.Context()).Sync()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Never prompt; missing values are errors")

	rootCmd.AddCommand(newInitCmd(opts))
	registerGenerateCmd(rootCmd, opts)
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newBindingsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func registerGenerateCmd(parent *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate models from schemas or schemas from models",
	}

	cmd.AddCommand(newGenerateModelCmd(opts))
	cmd.AddCommand(newGenerateSchemaCmd(opts))

	parent.AddCommand(cmd)
}
