// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personModel() *Model {
	return &Model{
		Package: "demo",
		Classes: []*Class{
			{
				Path: "demo::Named",
				Properties: []*Property{
					{Name: "name", Type: String, Multiplicity: One},
				},
				Constraints: []Constraint{
					{Name: "name_string", Expr: Cmp(">=", Arrow{Recv: This("name"), Func: "length"}, Lit(int64(1)))},
				},
			},
			{
				Path:       "demo::Person",
				Superclass: "demo::Named",
				Properties: []*Property{
					{Name: "age", Type: Integer, Multiplicity: ZeroOne},
					{Name: "address", Type: "demo::Address", Multiplicity: ZeroOne},
					{Name: "tags", Type: String, Multiplicity: Multiplicity{Lower: 0, Upper: 2}},
				},
			},
			{
				Path: "demo::Address",
				Properties: []*Property{
					{Name: "zip", Type: String, Multiplicity: One},
				},
			},
		},
	}
}

func TestCheck(t *testing.T) {
	m := personModel()
	require.NoError(t, m.Validate())

	tests := []struct {
		name     string
		instance any
		want     []string
	}{
		{"valid", map[string]any{"name": "Ann", "age": 3.0, "tags": []any{"a"}}, nil},
		{"not an object", "Ann", []string{"$: expected Person object, got \"Ann\""}},
		{"missing inherited", map[string]any{}, []string{"$.name: expected [1] value(s), got 0", "$: constraint name_string: length: expected one value, got 0"}},
		{"inherited constraint", map[string]any{"name": ""}, []string{"$: constraint name_string violated"}},
		{"wrong type", map[string]any{"name": "a", "age": 1.5}, []string{"$.age: expected Integer, got 1.5"}},
		{"too many", map[string]any{"name": "a", "tags": []any{"a", "b", "c"}}, []string{"$.tags: expected [0..2] value(s), got 3"}},
		{"nested", map[string]any{"name": "a", "address": map[string]any{}}, []string{"$.address.zip: expected [1] value(s), got 0"}},
		{"item path", map[string]any{"name": "a", "tags": []any{"a", 1.0}}, []string{"$.tags[1]: expected String, got 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations, err := m.Check("demo::Person", tt.instance)
			require.NoError(t, err)
			var got []string
			for _, v := range violations {
				got = append(got, v.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := m.Check("demo::Missing", map[string]any{})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	m := personModel()
	m.Classes[1].Superclass = "demo::Nope"
	assert.ErrorContains(t, m.Validate(), "unknown superclass")

	m = personModel()
	m.Classes[2].Properties = append(m.Classes[2].Properties, &Property{Name: "zip", Type: String, Multiplicity: One})
	assert.ErrorContains(t, m.Validate(), "duplicate property")

	m = personModel()
	m.Classes[2].Properties[0].Type = "demo::Zip"
	assert.ErrorContains(t, m.Validate(), "unknown type")

	m = personModel()
	m.Enums = append(m.Enums, &Enum{Path: "demo::Address"})
	assert.ErrorContains(t, m.Validate(), "duplicate element")
}

func TestLineage(t *testing.T) {
	m := personModel()
	person := m.Class("demo::Person")

	var names []string
	for _, p := range m.AllProperties(person) {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"name", "age", "address", "tags"}, names)
	assert.Len(t, m.AllConstraints(person), 1)

	m.Class("demo::Named").Superclass = "demo::Person"
	assert.Len(t, m.Lineage(person), 2)
}

func TestValidatePackage(t *testing.T) {
	assert.NoError(t, ValidatePackage("meta::demo"))
	assert.Error(t, ValidatePackage(""))
	assert.Error(t, ValidatePackage("meta::"))
	assert.Error(t, ValidatePackage("meta::1demo"))
}
