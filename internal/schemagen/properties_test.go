// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schemagen

import (
	"testing"

	"github.com/dacolabs/pureschema/internal/jschema"
	"github.com/dacolabs/pureschema/internal/model"
	"github.com/dacolabs/pureschema/internal/translate"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var roundTripTypes = []string{
	model.String, model.Integer, model.Float, model.Boolean, model.StrictDate, model.DateTime,
}

func multiplicityGen() *rapid.Generator[model.Multiplicity] {
	return rapid.Custom(func(t *rapid.T) model.Multiplicity {
		lower := rapid.IntRange(0, 3).Draw(t, "lower")
		if rapid.Bool().Draw(t, "unbounded") {
			return model.Multiplicity{Lower: lower, Upper: model.Many}
		}
		upper := rapid.IntRange(max(lower, 1), lower+3).Draw(t, "upper")
		return model.Multiplicity{Lower: lower, Upper: upper}
	})
}

// A class generated from the model and read back keeps its property names,
// types and multiplicities.
func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z][a-zA-Z0-9]{0,6}`), 1, 6, rapid.ID[string]).Draw(t, "names")
		c := &model.Class{Path: pkg + "::Record"}
		for _, name := range names {
			c.Properties = append(c.Properties, &model.Property{
				Name:         name,
				Type:         rapid.SampledFrom(roundTripTypes).Draw(t, "type"),
				Multiplicity: multiplicityGen().Draw(t, "multiplicity"),
			})
		}
		m := &model.Model{Package: pkg, Classes: []*model.Class{c}}

		docs, err := Generate(m, []string{"Record"})
		require.NoError(t, err)
		data, err := Encode(docs[0].Schema, jschema.JSON)
		require.NoError(t, err)

		doc, err := jschema.NewReader(nil).Read("Record.json", data)
		require.NoError(t, err)
		back, err := translate.Generate(doc, translate.Options{Package: pkg})
		require.NoError(t, err)

		got := back.Class(pkg + "::Record")
		require.NotNil(t, got)
		require.Len(t, got.Properties, len(c.Properties))
		for i, want := range c.Properties {
			p := got.Properties[i]
			require.Equal(t, want.Name, p.Name)
			require.Equal(t, want.Type, p.Type, "property %s", want.Name)
			require.Equal(t, want.Multiplicity, p.Multiplicity, "property %s", want.Name)
		}
	})
}
