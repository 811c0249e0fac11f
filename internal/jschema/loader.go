// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"io"
	"io/fs"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"
)

// Format is a schema serialization format.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFromPath picks the format from a file extension.
// Anything other than .yaml or .yml is read as JSON.
func FormatFromPath(p string) Format {
	if strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml") {
		return YAML
	}
	return JSON
}

// Parse decodes schema text and records property declaration order.
// JSON input is decoded strictly: duplicate member names and invalid UTF-8
// are rejected.
func Parse(data []byte, format Format) (*jsonschema.Schema, error) {
	var (
		schema   jsonschema.Schema
		keyOrder map[string][]string
		err      error
	)
	switch format {
	case YAML:
		var raw []byte
		if raw, err = yamlToJSON(data); err != nil {
			return nil, err
		}
		if err = json.Unmarshal(raw, &schema); err != nil {
			return nil, err
		}
		keyOrder, err = ExtractKeyOrderFromYAML(data)
	default:
		if err = json.Unmarshal(data, &schema); err != nil {
			return nil, err
		}
		keyOrder, err = ExtractKeyOrderFromJSON(data)
	}
	if err != nil {
		return nil, err
	}
	SetPropertyOrder(&schema, keyOrder)
	return &schema, nil
}

// yamlToJSON re-encodes a YAML document as JSON so both formats decode
// through the same schema type.
func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// Loader loads schemas from a filesystem.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a Loader that reads from the given filesystem.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// ReadFile returns the raw bytes of a schema file.
func (l *Loader) ReadFile(filePath string) ([]byte, error) {
	f, err := l.fsys.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	return io.ReadAll(f)
}
