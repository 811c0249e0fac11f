// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package jschema provides JSON Schema loading, reference resolution,
// validation and traversal.
package jschema

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"
)

// IsFileRef returns true if ref points into another file.
// Local refs start with "#".
func IsFileRef(ref string) bool {
	return ref != "" && !strings.HasPrefix(ref, "#")
}

// HasType reports whether the schema's type (or type union) includes t.
func HasType(s *jsonschema.Schema, t string) bool {
	return s.Type == t || slices.Contains(s.Types, t)
}

// TypeNames returns the declared type names of s.
func TypeNames(s *jsonschema.Schema) []string {
	if s.Type != "" {
		return []string{s.Type}
	}
	return s.Types
}

// EscapePointer escapes a JSON pointer reference token.
func EscapePointer(token string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(token)
}

func unescapePointer(token string) string {
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(token)
}

// ExtractKeyOrderFromJSON scans raw JSON and records the declaration order of
// every "properties" object, keyed by the JSON pointer of the owning schema
// ("" for the root, "/definitions/Address" for a definition).
func ExtractKeyOrderFromJSON(data []byte) (map[string][]string, error) {
	result := make(map[string][]string)
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	if err := scanJSON(dec, "", result); err != nil {
		return nil, fmt.Errorf("failed to scan property order: %w", err)
	}
	return result, nil
}

func scanJSON(dec *jsontext.Decoder, pointer string, result map[string][]string) error {
	tok, err := dec.ReadToken()
	if err != nil {
		return err
	}
	switch tok.Kind() {
	case '{':
		for {
			keyTok, err := dec.ReadToken()
			if err != nil {
				return err
			}
			if keyTok.Kind() == '}' {
				return nil
			}
			key := keyTok.String()
			child := pointer + "/" + EscapePointer(key)
			if key == "properties" && dec.PeekKind() == '{' {
				names, err := scanProperties(dec, child, result)
				if err != nil {
					return err
				}
				result[pointer] = names
				continue
			}
			if err := scanJSON(dec, child, result); err != nil {
				return err
			}
		}
	case '[':
		for i := 0; ; i++ {
			if dec.PeekKind() == ']' {
				_, err := dec.ReadToken()
				return err
			}
			if err := scanJSON(dec, pointer+"/"+strconv.Itoa(i), result); err != nil {
				return err
			}
		}
	}
	return nil
}

func scanProperties(dec *jsontext.Decoder, pointer string, result map[string][]string) ([]string, error) {
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	var names []string
	for {
		nameTok, err := dec.ReadToken()
		if err != nil {
			return nil, err
		}
		if nameTok.Kind() == '}' {
			return names, nil
		}
		name := nameTok.String()
		names = append(names, name)
		if err := scanJSON(dec, pointer+"/"+EscapePointer(name), result); err != nil {
			return nil, err
		}
	}
}

// ExtractKeyOrderFromYAML is the YAML counterpart of ExtractKeyOrderFromJSON.
func ExtractKeyOrderFromYAML(data []byte) (map[string][]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	result := make(map[string][]string)
	if len(root.Content) > 0 {
		scanYAML(root.Content[0], "", result)
	}
	return result, nil
}

func scanYAML(n *yaml.Node, pointer string, result map[string][]string) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i].Value, n.Content[i+1]
			child := pointer + "/" + EscapePointer(key)
			if key == "properties" && value.Kind == yaml.MappingNode {
				names := make([]string, 0, len(value.Content)/2)
				for j := 0; j+1 < len(value.Content); j += 2 {
					name := value.Content[j].Value
					names = append(names, name)
					scanYAML(value.Content[j+1], child+"/"+EscapePointer(name), result)
				}
				result[pointer] = names
				continue
			}
			scanYAML(value, child, result)
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			scanYAML(item, pointer+"/"+strconv.Itoa(i), result)
		}
	case yaml.AliasNode:
		if n.Alias != nil {
			scanYAML(n.Alias, pointer, result)
		}
	}
}

// SetPropertyOrder copies recorded key order into Schema.PropertyOrder for
// every schema in the tree.
func SetPropertyOrder(schema *jsonschema.Schema, keyOrder map[string][]string) {
	for pointer, s := range Walk(schema) {
		if order, ok := keyOrder[pointer]; ok && len(s.Properties) > 0 {
			s.PropertyOrder = order
		}
	}
}

// OrderedKeys returns the property names of s in declaration order, falling
// back to sorted order for properties missing from PropertyOrder.
func OrderedKeys(s *jsonschema.Schema) []string {
	keys := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.Properties))
	for _, name := range s.PropertyOrder {
		if _, ok := s.Properties[name]; ok && !seen[name] {
			keys = append(keys, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range s.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

// SortedKeys returns map keys sorted alphabetically.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
