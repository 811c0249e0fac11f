// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema_test

import (
	"testing"

	"github.com/dacolabs/pureschema/internal/jschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want jschema.Format
	}{
		{"yaml extension", "schema.yaml", jschema.YAML},
		{"yml extension", "schema.yml", jschema.YAML},
		{"json extension", "schema.json", jschema.JSON},
		{"no extension", "schema", jschema.JSON},
		{"path with yaml", "/path/to/schema.yaml", jschema.YAML},
		{"empty string", "", jschema.JSON},
		{"uppercase YAML", "schema.YAML", jschema.JSON}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jschema.FormatFromPath(tt.path))
		})
	}
}

func TestIsFileRef(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want bool
	}{
		{"relative file ref", "./other.json", true},
		{"file ref with fragment", "other.json#/definitions/X", true},
		{"internal ref", "#/definitions/address", false},
		{"self ref", "#", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jschema.IsFileRef(tt.ref))
		})
	}
}

func TestExtractKeyOrderFromJSON(t *testing.T) {
	data := []byte(`{
		"type": "object",
		"properties": {
			"zeta": {"type": "string"},
			"alpha": {"type": "object", "properties": {"b": {}, "a": {}}},
			"properties": {"type": "string"}
		},
		"definitions": {
			"Address": {"type": "object", "properties": {"street": {}, "city": {}}}
		}
	}`)

	order, err := jschema.ExtractKeyOrderFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "properties"}, order[""])
	assert.Equal(t, []string{"b", "a"}, order["/properties/alpha"])
	assert.Equal(t, []string{"street", "city"}, order["/definitions/Address"])
}

func TestExtractKeyOrderFromYAML(t *testing.T) {
	data := []byte(`
type: object
properties:
  zeta: {type: string}
  alpha:
    type: object
    properties:
      b: {}
      a: {}
`)

	order, err := jschema.ExtractKeyOrderFromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, order[""])
	assert.Equal(t, []string{"b", "a"}, order["/properties/alpha"])
}

func TestParse_SetsPropertyOrder(t *testing.T) {
	schema, err := jschema.Parse([]byte(`{"type":"object","properties":{"c":{},"a":{},"b":{}}}`), jschema.JSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, jschema.OrderedKeys(schema))
}

func TestParse_RejectsDuplicateNames(t *testing.T) {
	_, err := jschema.Parse([]byte(`{"type":"object","type":"string"}`), jschema.JSON)
	require.Error(t, err)
}

func TestEscapePointer(t *testing.T) {
	assert.Equal(t, "a~1b~0c", jschema.EscapePointer("a/b~c"))
}
