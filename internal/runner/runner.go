// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package runner executes the generation jobs of a project configuration.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dacolabs/pureschema/internal/config"
	"github.com/dacolabs/pureschema/internal/jschema"
	"github.com/dacolabs/pureschema/internal/model"
	"github.com/dacolabs/pureschema/internal/schemagen"
	"github.com/dacolabs/pureschema/internal/translate"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result lists the files one job wrote.
type Result struct {
	Job   string
	Files []string
}

// Runner runs jobs against a configuration. Relative paths resolve against
// Root.
type Runner struct {
	cfg    *config.Config
	root   string
	logger *zap.Logger
}

// New creates a Runner.
func New(cfg *config.Config, root string, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, root: root, logger: logger}
}

func (r *Runner) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.root, p)
}

// RunAll runs every configured job concurrently. The first failure cancels
// the jobs that have not started yet.
func (r *Runner) RunAll(ctx context.Context) ([]Result, error) {
	logger := r.logger.With(zap.String("run", uuid.NewString()))
	logger.Info("starting run",
		zap.Int("toModel", len(r.cfg.ToModel)),
		zap.Int("toSchema", len(r.cfg.ToSchema)))

	results := make([]Result, len(r.cfg.ToModel)+len(r.cfg.ToSchema))
	g, gctx := errgroup.WithContext(ctx)
	for i, job := range r.cfg.ToModel {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.runModel(job, logger)
			results[i] = res
			return err
		})
	}
	for i, job := range r.cfg.ToSchema {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.runSchema(job, logger)
			results[len(r.cfg.ToModel)+i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("run failed", zap.Error(err))
		return nil, err
	}
	logger.Info("run finished")
	return results, nil
}

// RunModel runs one schema to model job.
func (r *Runner) RunModel(job config.ToModel) (Result, error) {
	return r.runModel(job, r.logger)
}

// RunSchema runs one model to schema job.
func (r *Runner) RunSchema(job config.ToSchema) (Result, error) {
	return r.runSchema(job, r.logger)
}

func (r *Runner) runModel(job config.ToModel, logger *zap.Logger) (Result, error) {
	res := Result{Job: "toModel:" + job.SourceSchemaSet}
	logger = logger.With(zap.String("job", res.Job))

	m, err := r.Model(job.SourceSchemaSet, job.Package(r.cfg))
	if err != nil {
		return res, err
	}
	tr, err := translate.Get(job.OutputFormat())
	if err != nil {
		return res, err
	}
	out, err := tr.Translate(m)
	if err != nil {
		return res, fmt.Errorf("%s: failed to render model: %w", res.Job, err)
	}

	file := filepath.Join(r.path(job.Output), model.ElementName(m.Package)+tr.FileExtension())
	if err := writeFile(file, out); err != nil {
		return res, err
	}
	logger.Debug("wrote model",
		zap.String("file", file),
		zap.Int("classes", len(m.Classes)),
		zap.Int("enums", len(m.Enums)),
		zap.Int("functions", len(m.Functions)))
	res.Files = append(res.Files, file)
	return res, nil
}

// Model reads a schema set and generates its model in pkg.
func (r *Runner) Model(schemaSet, pkg string) (*model.Model, error) {
	set, ok := r.cfg.SchemaSets[schemaSet]
	if !ok {
		return nil, fmt.Errorf("unknown schema set %q", schemaSet)
	}
	doc, err := jschema.NewReader(os.DirFS(r.path(set.Dir))).ReadFiles(set.Files...)
	if err != nil {
		return nil, fmt.Errorf("schema set %s: %w", schemaSet, err)
	}
	m, err := translate.Generate(doc, translate.Options{Package: pkg})
	if err != nil {
		return nil, fmt.Errorf("schema set %s: %w", schemaSet, err)
	}
	return m, nil
}

func (r *Runner) runSchema(job config.ToSchema, logger *zap.Logger) (Result, error) {
	res := Result{Job: "toSchema:" + job.TargetBinding}
	logger = logger.With(zap.String("job", res.Job))

	b, ok := r.cfg.Bindings[job.TargetBinding]
	if !ok {
		return res, fmt.Errorf("unknown binding %q", job.TargetBinding)
	}
	m, err := LoadModel(r.path(b.Model))
	if err != nil {
		return res, err
	}
	docs, err := schemagen.Generate(m, job.SourceModel)
	if err != nil {
		return res, fmt.Errorf("%s: %w", res.Job, err)
	}

	format, ext := jschema.JSON, ".json"
	if job.OutputFormat() == "yaml" {
		format, ext = jschema.YAML, ".yaml"
	}
	for _, d := range docs {
		out, err := schemagen.Encode(d.Schema, format)
		if err != nil {
			return res, err
		}
		file := filepath.Join(r.path(job.Output), d.Name+ext)
		if err := writeFile(file, out); err != nil {
			return res, err
		}
		logger.Debug("wrote schema", zap.String("file", file), zap.String("class", d.Path))
		res.Files = append(res.Files, file)
	}
	return res, nil
}

// LoadModel decodes a YAML model document.
func LoadModel(path string) (*model.Model, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the project config
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	m, err := model.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
