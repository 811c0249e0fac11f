// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package config handles pureschema project configuration.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/dacolabs/pureschema/internal/model"
	"gopkg.in/yaml.v3"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// FileName is the name of the project configuration file.
const FileName = "pureschema.yaml"

var (
	// ModelFormats are the output formats of schema to model generation.
	ModelFormats = []string{"pure", "markdown", "yaml"}
	// SchemaFormats are the output formats of model to schema generation.
	SchemaFormats = []string{"json", "yaml"}
)

// Config represents the pureschema.yaml project configuration file.
type Config struct {
	Version    int                  `yaml:"version"`
	SchemaSets map[string]SchemaSet `yaml:"schemaSets,omitempty"`
	Bindings   map[string]Binding   `yaml:"bindings,omitempty"`
	ToModel    []ToModel            `yaml:"toModel,omitempty"`
	ToSchema   []ToSchema           `yaml:"toSchema,omitempty"`
}

// SchemaSet is a directory of JSON Schema files. Files lists the root
// schemas; files they reference are loaded from the same directory.
type SchemaSet struct {
	Dir   string   `yaml:"dir"`
	Files []string `yaml:"files"`
}

// Binding ties a schema set to the Pure package its model lives in.
type Binding struct {
	SchemaSet string `yaml:"schemaSet"`
	Package   string `yaml:"package"`
	// Model is the YAML model document read by schema generation.
	Model string `yaml:"model,omitempty"`
}

// ToModel is a schema to model generation job.
type ToModel struct {
	SourceSchemaSet string `yaml:"sourceSchemaSet"`
	TargetBinding   string `yaml:"targetBinding,omitempty"`
	TargetPackage   string `yaml:"targetPackage,omitempty"`
	Format          string `yaml:"format,omitempty"`
	Output          string `yaml:"output"`
}

// ToSchema is a model to schema generation job.
type ToSchema struct {
	SourceModel     []string `yaml:"sourceModel"`
	TargetBinding   string   `yaml:"targetBinding"`
	TargetSchemaSet string   `yaml:"targetSchemaSet,omitempty"`
	Format          string   `yaml:"format,omitempty"`
	Output          string   `yaml:"output"`
}

// Load reads a Config from a file path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks the version, the references between sections, output
// formats and package names. All problems are reported together.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.New("unsupported config version")
	}

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(c.SchemaSets)) {
		set := c.SchemaSets[name]
		if set.Dir == "" {
			errs = append(errs, fmt.Errorf("schemaSets.%s: dir is required", name))
		}
		if len(set.Files) == 0 {
			errs = append(errs, fmt.Errorf("schemaSets.%s: at least one file is required", name))
		}
	}
	for _, name := range slices.Sorted(maps.Keys(c.Bindings)) {
		b := c.Bindings[name]
		if _, ok := c.SchemaSets[b.SchemaSet]; b.SchemaSet != "" && !ok {
			errs = append(errs, fmt.Errorf("bindings.%s: unknown schema set %q", name, b.SchemaSet))
		}
		if err := model.ValidatePackage(b.Package); err != nil {
			errs = append(errs, fmt.Errorf("bindings.%s: %w", name, err))
		}
	}
	for i, job := range c.ToModel {
		errs = append(errs, c.validateToModel(fmt.Sprintf("toModel[%d]", i), job)...)
	}
	for i, job := range c.ToSchema {
		errs = append(errs, c.validateToSchema(fmt.Sprintf("toSchema[%d]", i), job)...)
	}
	return errors.Join(errs...)
}

func (c *Config) validateToModel(at string, job ToModel) []error {
	var errs []error
	if _, ok := c.SchemaSets[job.SourceSchemaSet]; !ok {
		errs = append(errs, fmt.Errorf("%s: unknown schema set %q", at, job.SourceSchemaSet))
	}
	if _, ok := c.Bindings[job.TargetBinding]; job.TargetBinding != "" && !ok {
		errs = append(errs, fmt.Errorf("%s: unknown binding %q", at, job.TargetBinding))
	}
	if job.TargetPackage == "" && job.TargetBinding == "" {
		errs = append(errs, fmt.Errorf("%s: targetPackage or targetBinding is required", at))
	} else if job.TargetPackage != "" {
		if err := model.ValidatePackage(job.TargetPackage); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", at, err))
		}
	}
	if job.Format != "" && !slices.Contains(ModelFormats, job.Format) {
		errs = append(errs, fmt.Errorf("%s: unknown format %q", at, job.Format))
	}
	if job.Output == "" {
		errs = append(errs, fmt.Errorf("%s: output is required", at))
	}
	return errs
}

func (c *Config) validateToSchema(at string, job ToSchema) []error {
	var errs []error
	if len(job.SourceModel) == 0 {
		errs = append(errs, fmt.Errorf("%s: sourceModel lists no classes", at))
	}
	if b, ok := c.Bindings[job.TargetBinding]; !ok {
		errs = append(errs, fmt.Errorf("%s: unknown binding %q", at, job.TargetBinding))
	} else if b.Model == "" {
		errs = append(errs, fmt.Errorf("%s: binding %q has no model document", at, job.TargetBinding))
	}
	if job.Format != "" && !slices.Contains(SchemaFormats, job.Format) {
		errs = append(errs, fmt.Errorf("%s: unknown format %q", at, job.Format))
	}
	if job.Output == "" {
		errs = append(errs, fmt.Errorf("%s: output is required", at))
	}
	return errs
}

// Package returns the package generated elements are placed in: the job's
// own, or the package of its binding.
func (j ToModel) Package(c *Config) string {
	if j.TargetPackage != "" {
		return j.TargetPackage
	}
	return c.Bindings[j.TargetBinding].Package
}

// OutputFormat returns the job's format, "pure" when unset.
func (j ToModel) OutputFormat() string {
	if j.Format == "" {
		return "pure"
	}
	return j.Format
}

// OutputFormat returns the job's format, "json" when unset.
func (j ToSchema) OutputFormat() string {
	if j.Format == "" {
		return "json"
	}
	return j.Format
}

// Example returns the configuration written by init for a new project.
func Example(schemaDir, pkg string) *Config {
	return &Config{
		Version: CurrentConfigVersion,
		SchemaSets: map[string]SchemaSet{
			"schemas": {Dir: schemaDir, Files: []string{"example.json"}},
		},
		Bindings: map[string]Binding{
			"default": {SchemaSet: "schemas", Package: pkg, Model: "model/model.yaml"},
		},
		ToModel: []ToModel{
			{SourceSchemaSet: "schemas", TargetBinding: "default", Format: "pure", Output: "gen/model"},
		},
	}
}
