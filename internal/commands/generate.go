// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dacolabs/pureschema/internal/config"
	"github.com/dacolabs/pureschema/internal/jschema"
	"github.com/dacolabs/pureschema/internal/logging"
	"github.com/dacolabs/pureschema/internal/model"
	"github.com/dacolabs/pureschema/internal/prompts"
	"github.com/dacolabs/pureschema/internal/runner"
	"github.com/dacolabs/pureschema/internal/schemagen"
	"github.com/dacolabs/pureschema/internal/session"
	"github.com/dacolabs/pureschema/internal/translate"
	"github.com/dacolabs/pureschema/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type generateModelOptions struct {
	schemaSets []string
	format     string
	watch      bool

	// ad hoc mode
	schema string
	pkg    string
	output string
}

func newGenerateModelCmd(root *rootOptions) *cobra.Command {
	opts := &generateModelOptions{}

	cmd := &cobra.Command{
		Use:   "model",
		Short: "Generate Pure models from JSON Schema",
		Long: fmt.Sprintf(`Generate Pure models from JSON Schema.

Without --schema, runs the toModel jobs of pureschema.yaml. With --schema,
generates the model of one schema file and the files it references.

Available formats: %s`, strings.Join(translate.Available(), ", ")),
		Example: `  # Run every configured job
  pureschema generate model

  # Run the jobs of one schema set as markdown, regenerating on change
  pureschema generate model --schema-set people --format markdown --watch

  # Generate one schema file without a project
  pureschema generate model --schema schemas/person.json --package meta::demo --output gen`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateModel(cmd, root, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.schemaSets, "schema-set", nil, "Only run jobs reading these schema sets")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", fmt.Sprintf("Output format (%s)", strings.Join(translate.Available(), ", ")))
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Regenerate when schema files change")
	cmd.Flags().StringVar(&opts.schema, "schema", "", "Schema file to generate from, without a project")
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "Pure package for --schema")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "gen", "Output directory for --schema")

	return cmd
}

func runGenerateModel(cmd *cobra.Command, root *rootOptions, opts *generateModelOptions) error {
	logger := logging.From(cmd.Context())
	out := cmd.OutOrStdout()

	var (
		run  func(ctx context.Context) error
		dirs []string
	)
	if opts.schema != "" {
		if !root.nonInteractive {
			if err := prompts.RunGenerateModelForm(&opts.pkg, &opts.format, translate.Available()); err != nil {
				return err
			}
		}
		if opts.pkg == "" {
			return errors.New("--package is required with --schema")
		}
		if opts.format == "" {
			opts.format = "pure"
		}
		run = func(context.Context) error {
			file, err := generateModelFile(opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "  %s\n", file)
			return nil
		}
		dirs = []string{filepath.Dir(opts.schema)}
	} else {
		ctx, err := session.Load(cmd.Context())
		if err != nil {
			return err
		}
		pctx := session.From(ctx)
		jobs, err := selectModelJobs(pctx.Config, opts)
		if err != nil {
			return err
		}
		r := runner.New(pctx.Config, pctx.Root, logger)
		run = func(context.Context) error {
			return runModelJobs(out, r, jobs)
		}
		for _, job := range jobs {
			dir := pctx.Path(pctx.Config.SchemaSets[job.SourceSchemaSet].Dir)
			if !slices.Contains(dirs, dir) {
				dirs = append(dirs, dir)
			}
		}
	}

	if err := run(cmd.Context()); err != nil && !opts.watch {
		return err
	} else if err != nil {
		logger.Error("generation failed", zap.Error(err))
	}
	if !opts.watch {
		return nil
	}
	return watchAndRun(cmd.Context(), out, logger, dirs, run)
}

func selectModelJobs(cfg *config.Config, opts *generateModelOptions) ([]config.ToModel, error) {
	if opts.format != "" {
		if _, err := translate.Get(opts.format); err != nil {
			return nil, err
		}
	}
	var jobs []config.ToModel
	for _, job := range cfg.ToModel {
		if len(opts.schemaSets) > 0 && !slices.Contains(opts.schemaSets, job.SourceSchemaSet) {
			continue
		}
		if opts.format != "" {
			job.Format = opts.format
		}
		jobs = append(jobs, job)
	}
	if len(jobs) == 0 {
		return nil, errors.New("no toModel jobs selected")
	}
	return jobs, nil
}

func runModelJobs(w io.Writer, r *runner.Runner, jobs []config.ToModel) error {
	var failed []string
	for _, job := range jobs {
		res, err := r.RunModel(job)
		if err != nil {
			failed = append(failed, err.Error())
			continue
		}
		for _, f := range res.Files {
			_, _ = fmt.Fprintf(w, "  %s\n", f)
		}
	}
	if len(failed) > 0 {
		prompts.PrintFailures(w, "Errors:", failed)
		return fmt.Errorf("%d of %d job(s) failed", len(failed), len(jobs))
	}
	return nil
}

func generateModelFile(opts *generateModelOptions) (string, error) {
	tr, err := translate.Get(opts.format)
	if err != nil {
		return "", err
	}
	m, _, err := runner.ReadSchemaFile(opts.schema, opts.pkg)
	if err != nil {
		return "", err
	}
	data, err := tr.Translate(m)
	if err != nil {
		return "", err
	}
	stem, _, _ := strings.Cut(filepath.Base(opts.schema), ".")
	file := filepath.Join(opts.output, stem+tr.FileExtension())
	if err := os.MkdirAll(opts.output, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(file, data, 0o600); err != nil {
		return "", err
	}
	return file, nil
}

func watchAndRun(ctx context.Context, w io.Writer, logger *zap.Logger, dirs []string, run func(context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	_, _ = fmt.Fprintf(w, "Watching %s (Ctrl+C to stop)\n", strings.Join(dirs, ", "))
	watcher := &watch.Watcher{
		Dirs:   dirs,
		Logger: logger,
		OnChange: func(ctx context.Context) error {
			_, _ = fmt.Fprintln(w, "Change detected, regenerating")
			return run(ctx)
		},
	}
	return watcher.Run(ctx)
}

type generateSchemaOptions struct {
	bindings []string
	format   string

	// ad hoc mode
	model   string
	classes []string
	output  string
}

func newGenerateSchemaCmd(root *rootOptions) *cobra.Command {
	opts := &generateSchemaOptions{}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate JSON Schema documents from a model",
		Long: `Generate one JSON Schema draft-07 document per class.

Without --model, runs the toSchema jobs of pureschema.yaml. With --model,
reads a YAML model document directly.`,
		Example: `  # Run every configured job
  pureschema generate schema

  # Generate YAML schemas for two classes of a model document
  pureschema generate schema --model model.yaml --class Person,Address --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateSchema(cmd, root, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.bindings, "binding", nil, "Only run jobs targeting these bindings")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format (json, yaml)")
	cmd.Flags().StringVar(&opts.model, "model", "", "YAML model document, without a project")
	cmd.Flags().StringSliceVarP(&opts.classes, "class", "c", nil, "Classes to generate for --model (default: all)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "gen/schemas", "Output directory for --model")

	return cmd
}

func runGenerateSchema(cmd *cobra.Command, root *rootOptions, opts *generateSchemaOptions) error {
	if opts.format != "" && !slices.Contains(config.SchemaFormats, opts.format) {
		return fmt.Errorf("unknown format %q", opts.format)
	}
	out := cmd.OutOrStdout()

	if opts.model != "" {
		m, err := runner.LoadModel(opts.model)
		if err != nil {
			return err
		}
		if len(opts.classes) == 0 {
			all := make([]string, len(m.Classes))
			for i, c := range m.Classes {
				all[i] = c.Path
			}
			if root.nonInteractive {
				opts.classes = all
			} else if err := prompts.RunSelectClassesForm(&opts.classes, all); err != nil {
				return err
			}
		}
		files, err := writeSchemas(m, opts)
		for _, f := range files {
			_, _ = fmt.Fprintf(out, "  %s\n", f)
		}
		return err
	}

	ctx, err := session.Load(cmd.Context())
	if err != nil {
		return err
	}
	pctx := session.From(ctx)
	r := runner.New(pctx.Config, pctx.Root, logging.From(cmd.Context()))

	ran := 0
	for _, job := range pctx.Config.ToSchema {
		if len(opts.bindings) > 0 && !slices.Contains(opts.bindings, job.TargetBinding) {
			continue
		}
		if opts.format != "" {
			job.Format = opts.format
		}
		res, err := r.RunSchema(job)
		if err != nil {
			return err
		}
		for _, f := range res.Files {
			_, _ = fmt.Fprintf(out, "  %s\n", f)
		}
		ran++
	}
	if ran == 0 {
		return errors.New("no toSchema jobs selected")
	}
	return nil
}

func writeSchemas(m *model.Model, opts *generateSchemaOptions) ([]string, error) {
	docs, err := schemagen.Generate(m, opts.classes)
	if err != nil {
		return nil, err
	}
	format, ext := jschema.JSON, ".json"
	if opts.format == "yaml" {
		format, ext = jschema.YAML, ".yaml"
	}
	if err := os.MkdirAll(opts.output, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	var files []string
	for _, d := range docs {
		data, err := schemagen.Encode(d.Schema, format)
		if err != nil {
			return files, err
		}
		file := filepath.Join(opts.output, d.Name+ext)
		if err := os.WriteFile(file, data, 0o600); err != nil {
			return files, err
		}
		files = append(files, file)
	}
	return files, nil
}
