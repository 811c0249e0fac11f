// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"slices"

	"github.com/dacolabs/pureschema/internal/model"
	"github.com/google/jsonschema-go/jsonschema"
)

// PrimitiveType maps a JSON Schema type and format to a Pure primitive.
// Format is checked first, allowing "date-time" to override "string".
// known is false when format is set but has no mapping of its own; the
// format is then advisory and should be kept as a tag.
func PrimitiveType(schemaType, format string) (typ string, known bool) {
	switch schemaType {
	case "string":
		switch format {
		case "date":
			return model.StrictDate, true
		case "date-time":
			return model.DateTime, true
		}
		return model.String, format == ""
	case "integer":
		return model.Integer, format == ""
	case "number":
		return model.Float, format == ""
	case "boolean":
		return model.Boolean, format == ""
	default:
		return model.Any, format == ""
	}
}

var (
	numericTypes = []string{model.Integer, model.Float, model.Decimal, model.Number}
	dateTypes    = []string{model.StrictDate, model.DateTime, model.Date}
)

// CommonSupertype returns the narrowest type that all of types conform to:
// the type itself when they agree, Number for mixed numerics, Date for mixed
// dates and Any otherwise.
func CommonSupertype(types ...string) string {
	var distinct []string
	for _, t := range types {
		if !slices.Contains(distinct, t) {
			distinct = append(distinct, t)
		}
	}
	switch {
	case len(distinct) == 0:
		return model.Any
	case len(distinct) == 1:
		return distinct[0]
	case allIn(distinct, numericTypes):
		return model.Number
	case allIn(distinct, dateTypes):
		return model.Date
	default:
		return model.Any
	}
}

func allIn(types, set []string) bool {
	for _, t := range types {
		if !slices.Contains(set, t) {
			return false
		}
	}
	return true
}

// ArrayMultiplicity derives the multiplicity of an array property.
// Required arrays take [minItems..maxItems]; optional arrays always admit
// zero values and report minItems back through sizeCheck so it can be
// enforced by a constraint.
func ArrayMultiplicity(s *jsonschema.Schema, required bool) (mult model.Multiplicity, sizeCheck int) {
	mult = model.Multiplicity{Lower: 0, Upper: model.Many}
	if s.MaxItems != nil {
		mult.Upper = *s.MaxItems
	}
	if s.MinItems != nil && *s.MinItems > 0 {
		if required {
			mult.Lower = *s.MinItems
		} else {
			sizeCheck = *s.MinItems
		}
	}
	return mult, sizeCheck
}

// ScalarMultiplicity derives the multiplicity of a single-valued property.
func ScalarMultiplicity(required, nullable bool) model.Multiplicity {
	if required && !nullable {
		return model.One
	}
	return model.ZeroOne
}
