// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"iter"
	"reflect"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
)

// IsEmpty reports whether s is the empty (true) schema.
func IsEmpty(s *jsonschema.Schema) bool {
	return s != nil && reflect.DeepEqual(*s, jsonschema.Schema{})
}

// IsFalse reports whether s is the false schema, represented as {not: {}}.
func IsFalse(s *jsonschema.Schema) bool {
	if s == nil || s.Not == nil {
		return false
	}
	rest := *s
	rest.Not = nil
	return IsEmpty(s.Not) && reflect.DeepEqual(rest, jsonschema.Schema{})
}

// Walk returns an iterator over every subschema of schema paired with its
// JSON pointer relative to schema ("" for schema itself). Children are
// visited in a deterministic order; properties follow PropertyOrder.
// Boolean additionalProperties carry no content and are skipped.
func Walk(schema *jsonschema.Schema) iter.Seq2[string, *jsonschema.Schema] {
	return func(yield func(string, *jsonschema.Schema) bool) {
		visited := make(map[*jsonschema.Schema]struct{})
		walk("", schema, yield, visited)
	}
}

func walk(pointer string, s *jsonschema.Schema, yield func(string, *jsonschema.Schema) bool, visited map[*jsonschema.Schema]struct{}) bool {
	if s == nil {
		return true
	}
	if _, ok := visited[s]; ok {
		return true
	}
	visited[s] = struct{}{}

	if !yield(pointer, s) {
		return false
	}

	named := func(keyword string, m map[string]*jsonschema.Schema, keys []string) bool {
		for _, k := range keys {
			if !walk(pointer+"/"+keyword+"/"+EscapePointer(k), m[k], yield, visited) {
				return false
			}
		}
		return true
	}
	indexed := func(keyword string, list []*jsonschema.Schema) bool {
		for i, child := range list {
			if !walk(pointer+"/"+keyword+"/"+strconv.Itoa(i), child, yield, visited) {
				return false
			}
		}
		return true
	}
	single := func(keyword string, child *jsonschema.Schema) bool {
		return walk(pointer+"/"+keyword, child, yield, visited)
	}

	// Objects
	if !named("properties", s.Properties, OrderedKeys(s)) ||
		!named("patternProperties", s.PatternProperties, SortedKeys(s.PatternProperties)) {
		return false
	}
	if !IsEmpty(s.AdditionalProperties) && !IsFalse(s.AdditionalProperties) && !single("additionalProperties", s.AdditionalProperties) {
		return false
	}
	if !single("propertyNames", s.PropertyNames) || !single("unevaluatedProperties", s.UnevaluatedProperties) {
		return false
	}

	// Arrays
	if !single("items", s.Items) || !indexed("items", s.ItemsArray) || !indexed("prefixItems", s.PrefixItems) {
		return false
	}
	if !single("additionalItems", s.AdditionalItems) || !single("contains", s.Contains) || !single("unevaluatedItems", s.UnevaluatedItems) {
		return false
	}

	// Logic
	if !indexed("allOf", s.AllOf) || !indexed("anyOf", s.AnyOf) || !indexed("oneOf", s.OneOf) || !single("not", s.Not) {
		return false
	}

	// Conditional
	if !single("if", s.If) || !single("then", s.Then) || !single("else", s.Else) {
		return false
	}
	if !named("dependentSchemas", s.DependentSchemas, SortedKeys(s.DependentSchemas)) ||
		!named("dependencies", s.DependencySchemas, SortedKeys(s.DependencySchemas)) {
		return false
	}

	// Definitions
	return named("definitions", s.Definitions, SortedKeys(s.Definitions)) &&
		named("$defs", s.Defs, SortedKeys(s.Defs))
}

// Lookup evaluates a JSON pointer fragment (without the leading '#')
// against root and returns the schema it designates, or nil.
func Lookup(root *jsonschema.Schema, pointer string) *jsonschema.Schema {
	if pointer == "" || pointer == "/" {
		return root
	}
	if pointer[0] != '/' {
		return nil
	}
	tokens := splitPointer(pointer[1:])
	s := root
	for i := 0; i < len(tokens) && s != nil; i++ {
		keyword := tokens[i]
		switch keyword {
		case "properties", "patternProperties", "definitions", "$defs", "dependentSchemas", "dependencies":
			if i+1 >= len(tokens) {
				return nil
			}
			i++
			s = namedChildren(s, keyword)[tokens[i]]
		case "allOf", "anyOf", "oneOf", "prefixItems":
			if i+1 >= len(tokens) {
				return nil
			}
			i++
			idx, err := strconv.Atoi(tokens[i])
			list := indexedChildren(s, keyword)
			if err != nil || idx < 0 || idx >= len(list) {
				return nil
			}
			s = list[idx]
		case "items":
			if s.Items != nil {
				s = s.Items
				continue
			}
			if i+1 >= len(tokens) {
				return nil
			}
			i++
			idx, err := strconv.Atoi(tokens[i])
			if err != nil || idx < 0 || idx >= len(s.ItemsArray) {
				return nil
			}
			s = s.ItemsArray[idx]
		case "additionalProperties":
			s = s.AdditionalProperties
		case "additionalItems":
			s = s.AdditionalItems
		case "not":
			s = s.Not
		case "contains":
			s = s.Contains
		case "if":
			s = s.If
		case "then":
			s = s.Then
		case "else":
			s = s.Else
		default:
			return nil
		}
	}
	return s
}

func splitPointer(p string) []string {
	var tokens []string
	start := 0
	for i := 0; i <= len(p); i++ {
		if i == len(p) || p[i] == '/' {
			tokens = append(tokens, unescapePointer(p[start:i]))
			start = i + 1
		}
	}
	return tokens
}

func namedChildren(s *jsonschema.Schema, keyword string) map[string]*jsonschema.Schema {
	switch keyword {
	case "properties":
		return s.Properties
	case "patternProperties":
		return s.PatternProperties
	case "definitions":
		return s.Definitions
	case "$defs":
		return s.Defs
	case "dependentSchemas":
		return s.DependentSchemas
	default:
		return s.DependencySchemas
	}
}

func indexedChildren(s *jsonschema.Schema, keyword string) []*jsonschema.Schema {
	switch keyword {
	case "allOf":
		return s.AllOf
	case "anyOf":
		return s.AnyOf
	case "oneOf":
		return s.OneOf
	default:
		return s.PrefixItems
	}
}
