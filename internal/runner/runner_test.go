// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dacolabs/pureschema/internal/config"
	"github.com/dacolabs/pureschema/internal/translate"
	"github.com/dacolabs/pureschema/internal/translate/modelyaml"
	"github.com/dacolabs/pureschema/internal/translate/pure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const personSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "age": {"type": "integer", "minimum": 0},
    "address": {"$ref": "address.json"}
  },
  "required": ["name"]
}`

const addressSchema = `{
  "type": "object",
  "properties": {"city": {"type": "string"}},
  "required": ["city"]
}`

func init() {
	translate.Register(&pure.Translator{})
	translate.Register(&modelyaml.Translator{})
}

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	schemas := filepath.Join(root, "schemas")
	require.NoError(t, os.MkdirAll(schemas, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(schemas, "person.json"), []byte(personSchema), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(schemas, "address.json"), []byte(addressSchema), 0o600))
	return root
}

func projectConfig() *config.Config {
	return &config.Config{
		Version:    1,
		SchemaSets: map[string]config.SchemaSet{"people": {Dir: "schemas", Files: []string{"person.json"}}},
		Bindings: map[string]config.Binding{
			"people": {SchemaSet: "people", Package: "meta::demo::people", Model: "gen/model/people.yaml"},
		},
		ToModel: []config.ToModel{
			{SourceSchemaSet: "people", TargetBinding: "people", Output: "gen/pure"},
			{SourceSchemaSet: "people", TargetBinding: "people", Format: "yaml", Output: "gen/model"},
		},
	}
}

func TestRunner_RunModel(t *testing.T) {
	root := writeProject(t)
	r := New(projectConfig(), root, nil)

	res, err := r.RunModel(projectConfig().ToModel[0])
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "gen/pure/people.pure")}, res.Files)

	out, err := os.ReadFile(res.Files[0])
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "Class meta::demo::people::Address")
	assert.Contains(t, text, "Class meta::demo::people::Person")
	assert.Contains(t, text, "address: meta::demo::people::Address[0..1];")
	assert.Contains(t, text, "name_string: $this.name->length() >= 1")
}

func TestRunner_RunAllThenSchema(t *testing.T) {
	root := writeProject(t)
	core, logs := observer.New(zap.DebugLevel)
	cfg := projectConfig()
	r := New(cfg, root, zap.New(core))

	results, err := r.RunAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "toModel:people", results[1].Job)
	assert.FileExists(t, filepath.Join(root, "gen/model/people.yaml"))

	started := logs.FilterMessage("starting run").All()
	require.Len(t, started, 1)
	assert.NotEmpty(t, started[0].ContextMap()["run"])
	assert.Equal(t, 2, logs.FilterMessage("wrote model").Len())

	// The generated model document feeds schema generation.
	cfg.ToSchema = []config.ToSchema{{SourceModel: []string{"Person"}, TargetBinding: "people", Output: "gen/schemas"}}
	res, err := r.RunSchema(cfg.ToSchema[0])
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "gen/schemas/Person.json")}, res.Files)

	out, err := os.ReadFile(res.Files[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"$ref": "#/definitions/Address"`)
	assert.Contains(t, string(out), `"required": [`)
}

func TestRunner_RunAllFailure(t *testing.T) {
	root := writeProject(t)
	cfg := projectConfig()
	cfg.SchemaSets["people"] = config.SchemaSet{Dir: "schemas", Files: []string{"missing.json"}}
	core, logs := observer.New(zap.ErrorLevel)

	_, err := New(cfg, root, zap.New(core)).RunAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")
	assert.Equal(t, 1, logs.FilterMessage("run failed").Len())
}

func TestRunner_UnknownFormat(t *testing.T) {
	root := writeProject(t)
	job := config.ToModel{SourceSchemaSet: "people", TargetPackage: "meta::x", Format: "avro", Output: "out"}

	_, err := New(projectConfig(), root, nil).RunModel(job)
	assert.EqualError(t, err, "unknown translator: avro")
}

func TestCheckInstance(t *testing.T) {
	root := writeProject(t)

	m, class, err := SchemaModel(filepath.Join(root, "schemas", "person.json"))
	require.NoError(t, err)
	assert.Equal(t, "meta::check::Person", class)

	violations, err := CheckInstance(m, class, []byte(`{"name": "Ada", "age": 36, "address": {"city": "London"}}`))
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = CheckInstance(m, class, []byte(`{"name": "", "age": -1, "address": {}}`))
	require.NoError(t, err)
	var paths []string
	for _, v := range violations {
		paths = append(paths, v.Path)
	}
	assert.Contains(t, paths, "$.address.city")
	assert.Len(t, violations, 3)

	_, err = CheckInstance(m, "Person", []byte(`{`))
	assert.Error(t, err)
}
