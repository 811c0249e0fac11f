// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dacolabs/pureschema/internal/config"
	"github.com/dacolabs/pureschema/internal/model"
	"github.com/dacolabs/pureschema/internal/prompts"
	"github.com/spf13/cobra"
)

const exampleSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Example",
  "type": "object",
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "tags": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["name"]
}
`

type initOptions struct {
	schemaDir string
	pkg       string
}

func newInitCmd(root *rootOptions) *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new pureschema project",
		Long: `Initialize a new pureschema project with a pureschema.yaml configuration file,
a schema directory holding an example schema, and one binding and generation job.`,
		Example: `  # Interactive mode
  pureschema init

  # Non-interactive
  pureschema init --package meta::demo --schemas schemas --non-interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			if !root.nonInteractive {
				if err := prompts.RunInitForm(&opts.schemaDir, &opts.pkg); err != nil {
					return err
				}
			}
			if err := runInit(cwd, opts); err != nil {
				return err
			}
			prompts.PrintResult(cmd.OutOrStdout(), []prompts.ResultField{
				{Label: "Config", Value: config.FileName},
				{Label: "Schemas", Value: opts.schemaDir},
				{Label: "Package", Value: opts.pkg},
			}, "Initialization completed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.schemaDir, "schemas", "s", "schemas", "Schema directory")
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "Pure package of the generated model")

	return cmd
}

func runInit(dir string, opts *initOptions) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return errors.New(config.FileName + " already exists; project already initialized")
	}
	if opts.pkg == "" {
		return errors.New("--package is required")
	}
	if err := model.ValidatePackage(opts.pkg); err != nil {
		return err
	}

	cfg := config.Example(opts.schemaDir, opts.pkg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	schemaDir := opts.schemaDir
	if !filepath.IsAbs(schemaDir) {
		schemaDir = filepath.Join(dir, schemaDir)
	}
	if err := os.MkdirAll(schemaDir, 0o750); err != nil {
		return fmt.Errorf("failed to create schema directory: %w", err)
	}
	example := filepath.Join(schemaDir, "example.json")
	if _, err := os.Stat(example); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(example, []byte(exampleSchema), 0o600); err != nil {
			return fmt.Errorf("failed to write example schema: %w", err)
		}
	}

	if err := cfg.Save(cfgPath); err != nil {
		return fmt.Errorf("config file couldn't be saved: %w", err)
	}
	return nil
}
