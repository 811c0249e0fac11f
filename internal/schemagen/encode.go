// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schemagen

import (
	"bytes"
	"fmt"

	"github.com/dacolabs/pureschema/internal/jschema"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"
)

// Encode serializes a generated schema with two-space indentation.
// The output is byte-for-byte stable for equal input.
func Encode(s *jsonschema.Schema, format jschema.Format) ([]byte, error) {
	data, err := json.Marshal(s, json.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	if format == jschema.JSON {
		return append(data, '\n'), nil
	}

	// JSON is YAML: decoding into a node keeps the key order.
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to convert schema to YAML: %w", err)
	}
	blockStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blockStyle drops the flow and quoting styles inherited from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
