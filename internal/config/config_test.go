// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Version: 1,
		SchemaSets: map[string]SchemaSet{
			"people": {Dir: "schemas", Files: []string{"person.json"}},
		},
		Bindings: map[string]Binding{
			"peopleBinding": {SchemaSet: "people", Package: "meta::demo::people", Model: "model/people.yaml"},
		},
		ToModel: []ToModel{
			{SourceSchemaSet: "people", TargetBinding: "peopleBinding", Output: "gen"},
		},
		ToSchema: []ToSchema{
			{SourceModel: []string{"Person"}, TargetBinding: "peopleBinding", Output: "gen/schemas"},
		},
	}
}

func TestConfig_LoadAndSave(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, FileName)

	cfg := validConfig()
	require.NoError(t, cfg.Save(cfgPath))

	loaded, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr []string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "unsupported version",
			mutate:  func(c *Config) { c.Version = 99 },
			wantErr: []string{"unsupported config version"},
		},
		{
			name: "unknown references",
			mutate: func(c *Config) {
				c.ToModel[0].SourceSchemaSet = "nope"
				c.ToSchema[0].TargetBinding = "missing"
			},
			wantErr: []string{`toModel[0]: unknown schema set "nope"`, `toSchema[0]: unknown binding "missing"`},
		},
		{
			name: "bad package and format",
			mutate: func(c *Config) {
				c.ToModel[0].TargetPackage = "meta::1bad"
				c.ToModel[0].Format = "avro"
				c.ToSchema[0].Format = "xml"
			},
			wantErr: []string{`invalid package "meta::1bad"`, `toModel[0]: unknown format "avro"`, `toSchema[0]: unknown format "xml"`},
		},
		{
			name: "missing target",
			mutate: func(c *Config) {
				c.ToModel[0].TargetBinding = ""
				c.ToModel[0].Output = ""
			},
			wantErr: []string{"targetPackage or targetBinding is required", "toModel[0]: output is required"},
		},
		{
			name: "binding without model",
			mutate: func(c *Config) {
				b := c.Bindings["peopleBinding"]
				b.Model = ""
				c.Bindings["peopleBinding"] = b
			},
			wantErr: []string{`binding "peopleBinding" has no model document`},
		},
		{
			name: "empty schema set",
			mutate: func(c *Config) {
				c.SchemaSets["people"] = SchemaSet{}
			},
			wantErr: []string{"schemaSets.people: dir is required", "schemaSets.people: at least one file is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := validConfig()
	job := cfg.ToModel[0]

	assert.Equal(t, "meta::demo::people", job.Package(&cfg))
	assert.Equal(t, "pure", job.OutputFormat())
	assert.Equal(t, "json", cfg.ToSchema[0].OutputFormat())

	job.TargetPackage = "meta::other"
	job.Format = "markdown"
	assert.Equal(t, "meta::other", job.Package(&cfg))
	assert.Equal(t, "markdown", job.OutputFormat())
}

func TestConfig_SaveFormat(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), FileName)

	cfg := validConfig()
	require.NoError(t, cfg.Save(cfgPath))

	content, err := os.ReadFile(cfgPath) //nolint:gosec // test file path
	require.NoError(t, err)

	output := string(content)
	assert.Contains(t, output, "version: 1")
	assert.Contains(t, output, "schemaSets:")
	assert.Contains(t, output, "package: meta::demo::people")
	assert.Contains(t, output, "sourceSchemaSet: people")
}

func TestConfig_Load(t *testing.T) {
	cfg, err := Load("testdata/valid.yaml")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, []string{"person.json"}, cfg.SchemaSets["people"].Files)
	assert.Equal(t, "meta::demo::people", cfg.Bindings["peopleBinding"].Package)
	require.Len(t, cfg.ToSchema, 1)
	assert.Equal(t, []string{"meta::demo::people::Person"}, cfg.ToSchema[0].SourceModel)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Load_NotFound(t *testing.T) {
	_, err := Load("testdata/nonexistent.yaml")
	assert.Error(t, err)
}

func TestConfig_Load_Invalid(t *testing.T) {
	_, err := Load("testdata/invalid.yaml")
	assert.Error(t, err)
}

func TestConfig_Load_UnknownField(t *testing.T) {
	_, err := Load("testdata/unknown_field.yaml")
	assert.Error(t, err)
}

func TestConfig_Save_InvalidPath(t *testing.T) {
	cfg := Config{Version: 1}

	err := cfg.Save("/nonexistent/directory/config.yaml")
	assert.Error(t, err)
}

func TestConfig_Load_Empty(t *testing.T) {
	emptyFile := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(emptyFile, []byte(""), 0o600))

	_, err := Load(emptyFile)
	assert.Error(t, err)
}

func TestExample(t *testing.T) {
	cfg := Example("schemas", "meta::demo")
	assert.NoError(t, cfg.Validate())
}
