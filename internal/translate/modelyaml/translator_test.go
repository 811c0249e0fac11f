// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package modelyaml

import (
	"bytes"
	"testing"

	"github.com/dacolabs/pureschema/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslator_RoundTrip(t *testing.T) {
	m := &model.Model{Package: "meta::demo", Classes: []*model.Class{{
		Path: "meta::demo::Person",
		Properties: []*model.Property{
			{Name: "name", Type: model.String, Multiplicity: model.One},
			{Name: "tags", Type: model.String, Multiplicity: model.ZeroMany},
		},
	}}}

	tr := &Translator{}
	assert.Equal(t, "yaml", tr.Name())
	assert.Equal(t, ".yaml", tr.FileExtension())

	out, err := tr.Translate(m)
	require.NoError(t, err)

	back, err := model.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	c := back.Class("meta::demo::Person")
	require.NotNil(t, c)
	require.Len(t, c.Properties, 2)
	assert.Equal(t, model.ZeroMany, c.Properties[1].Multiplicity)
}
