// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"fmt"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
)

var knownTypes = []string{"string", "integer", "number", "boolean", "object", "array", "null"}

// ValidateNode checks a single schema node (not its children) for structural
// problems and untranslatable keywords. loc is used as the error path.
func ValidateNode(loc string, s *jsonschema.Schema) error {
	if IsFalse(s) {
		return &UnsupportedKeywordError{Path: loc, Keyword: "false"}
	}
	if err := checkStructure(loc, s); err != nil {
		return err
	}
	if kw := unsupportedKeyword(s); kw != "" {
		return &UnsupportedKeywordError{Path: loc, Keyword: kw}
	}
	return nil
}

func checkStructure(loc string, s *jsonschema.Schema) error {
	malformed := func(format string, args ...any) error {
		return &MalformedSchemaError{Path: loc, Reason: fmt.Sprintf(format, args...)}
	}

	for _, t := range TypeNames(s) {
		if !slices.Contains(knownTypes, t) {
			return malformed("unknown type %q", t)
		}
	}
	typed := s.Type != "" || len(s.Types) > 0
	if s.Items != nil && !HasType(s, "array") {
		return malformed("items requires type array")
	}
	if len(s.Properties) > 0 && typed && !HasType(s, "object") {
		return malformed("properties requires type object")
	}
	if s.Enum != nil && len(s.Enum) == 0 {
		return malformed("enum must not be empty")
	}
	for _, b := range []struct {
		name     string
		min, max *int
	}{
		{"Length", s.MinLength, s.MaxLength},
		{"Items", s.MinItems, s.MaxItems},
	} {
		if b.min != nil && *b.min < 0 {
			return malformed("min%s must not be negative", b.name)
		}
		if b.max != nil && *b.max < 0 {
			return malformed("max%s must not be negative", b.name)
		}
		if b.min != nil && b.max != nil && *b.min > *b.max {
			return malformed("min%s %d exceeds max%s %d", b.name, *b.min, b.name, *b.max)
		}
	}

	lower, upper := s.Minimum, s.Maximum
	if lower == nil {
		lower = s.ExclusiveMinimum
	}
	if upper == nil {
		upper = s.ExclusiveMaximum
	}
	if lower != nil && upper != nil && *lower > *upper {
		return malformed("minimum %v exceeds maximum %v", *lower, *upper)
	}
	if s.MultipleOf != nil && *s.MultipleOf <= 0 {
		return malformed("multipleOf must be positive")
	}
	return nil
}

func unsupportedKeyword(s *jsonschema.Schema) string {
	switch {
	case s.Not != nil:
		return "not"
	case s.If != nil || s.Then != nil || s.Else != nil:
		return "if"
	case len(s.PatternProperties) > 0:
		return "patternProperties"
	case s.PropertyNames != nil:
		return "propertyNames"
	case s.Contains != nil || s.MinContains != nil || s.MaxContains != nil:
		return "contains"
	case len(s.PrefixItems) > 0:
		return "prefixItems"
	case s.ItemsArray != nil:
		return "items"
	case s.AdditionalItems != nil:
		return "additionalItems"
	case s.UnevaluatedItems != nil:
		return "unevaluatedItems"
	case s.UnevaluatedProperties != nil:
		return "unevaluatedProperties"
	case len(s.DependentSchemas) > 0:
		return "dependentSchemas"
	case len(s.DependencySchemas) > 0:
		return "dependencies"
	case s.MinProperties != nil:
		return "minProperties"
	case s.MaxProperties != nil:
		return "maxProperties"
	case s.DynamicRef != "":
		return "$dynamicRef"
	case s.AdditionalProperties != nil && !IsEmpty(s.AdditionalProperties) && !IsFalse(s.AdditionalProperties):
		return "additionalProperties"
	}
	return ""
}
