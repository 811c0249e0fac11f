// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	profile := "demo::JSONSchemaProfile"
	m := &Model{
		Package:  "demo",
		Profiles: []*Profile{{Path: profile, Stereotypes: []string{StereotypeNullable}, Tags: []string{TagFormat}}},
		Enums: []*Enum{{
			Path:    "demo::Color",
			Default: "RED",
			Values:  []*EnumValue{{Name: "RED"}, {Name: "GREEN"}},
		}},
		Functions: []*Function{{
			Path:               "demo::Code_validate",
			Params:             []Param{{Name: "value", Type: String, Multiplicity: One}},
			ReturnType:         Boolean,
			ReturnMultiplicity: One,
			Body:               Arrow{Recv: Var{Name: "value"}, Func: "matches", Args: []Expr{Lit("[A-Z]+")}},
		}},
		Classes: []*Class{{
			Path: "demo::Thing",
			Properties: []*Property{
				{Name: "color", Type: "demo::Color", Multiplicity: ZeroOne, Default: EnumValueRef{Enum: "demo::Color", Value: "RED"}},
				{Name: "email", Type: String, Multiplicity: ZeroOne},
			},
			Constraints: []Constraint{{Name: "email_string", Expr: Arrow{Recv: This("email"), Func: "isEmpty"}}},
		}},
	}
	email := m.Classes[0].Properties[1]
	email.AddStereotype(Stereotype{Profile: profile, Value: StereotypeNullable})
	email.Tags.Add(TagRef{Profile: profile, Tag: TagFormat}, "email")
	m.Classes[0].Tags.Add(TagRef{Profile: DocProfile, Tag: TagDoc}, "A thing.")

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m))
	out := buf.String()
	assert.Contains(t, out, "path: demo::Thing")
	assert.Contains(t, out, "[0..1]")
	assert.Contains(t, out, "demo::Color.RED")
	assert.Contains(t, out, "returns: Boolean[1]")

	decoded, err := Decode(strings.NewReader(out))
	require.NoError(t, err)

	thing := decoded.Class("demo::Thing")
	require.NotNil(t, thing)
	assert.Equal(t, "A thing.", thing.Doc())
	assert.Equal(t, EnumValueRef{Enum: "demo::Color", Value: "RED"}, thing.Property("color").Default)
	assert.True(t, thing.Property("email").HasStereotype(SchemaProfileName, StereotypeNullable))
	format, ok := thing.Property("email").TagValue(SchemaProfileName, TagFormat)
	assert.True(t, ok)
	assert.Equal(t, "email", format)
	assert.Equal(t, "$this.email->isEmpty()", thing.Constraints[0].Expr.String())

	fn := decoded.Function("demo::Code_validate")
	require.NotNil(t, fn)
	assert.Equal(t, "value: String[1]", fn.Params[0].String())
	assert.Equal(t, One, fn.ReturnMultiplicity)
	assert.Equal(t, "RED", decoded.Enum("demo::Color").Default)

	var again bytes.Buffer
	require.NoError(t, Encode(&again, decoded))
	assert.Equal(t, out, again.String())
}

func TestDecodeRelativeNames(t *testing.T) {
	doc := `
package: demo
classes:
  - path: Person
    properties:
      - name: home
        type: Address
        multiplicity: '[0..1]'
  - path: Address
`
	m, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "demo::Address", m.Class("demo::Person").Property("home").Type)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad yaml", "classes: [", "failed to decode model"},
		{"bad multiplicity", "classes:\n  - path: A\n    properties:\n      - {name: a, type: String, multiplicity: 'x'}\n", "invalid multiplicity"},
		{"unknown type", "classes:\n  - path: A\n    properties:\n      - {name: a, type: B, multiplicity: '[1]'}\n", "unknown type"},
		{"bad stereotype", "classes:\n  - path: A\n    stereotypes: [nodot]\n", "invalid stereotype"},
		{"bad return", "functions:\n  - {path: f, returns: Boolean, body: 'true'}\n", "expected Type[multiplicity]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
