// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package markdown

import (
	"strings"
	"testing"

	"github.com/dacolabs/pureschema/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	address := &model.Class{
		Path:       "demo::Address",
		Properties: []*model.Property{{Name: "zip", Type: model.String, Multiplicity: model.One}},
		Constraints: []model.Constraint{{Name: "zip_string", Expr: model.Arrow{
			Recv: model.This("zip"), Func: "matches", Args: []model.Expr{model.Lit("[0-9]{5}")},
		}}},
	}
	person := &model.Class{
		Path: "demo::Person",
		Properties: []*model.Property{
			{Name: "home", Type: "demo::Address", Multiplicity: model.ZeroOne},
			{Name: "email", Type: model.String, Multiplicity: model.ZeroOne},
		},
	}
	person.Tags.Add(model.TagRef{Profile: model.DocProfile, Tag: model.TagDoc}, "A person.")
	person.Properties[1].Tags.Add(model.TagRef{Profile: "demo::JSONSchemaProfile", Tag: model.TagFormat}, "email")
	person.Properties[1].Tags.Add(model.TagRef{Profile: model.DocProfile, Tag: model.TagDoc}, "Contact | primary")

	m := &model.Model{
		Package: "demo",
		Classes: []*model.Class{person, address},
		Enums: []*model.Enum{{
			Path:   "demo::Color",
			Values: []*model.EnumValue{{Name: "red"}},
		}},
	}

	tr := &Translator{}
	assert.Equal(t, "markdown", tr.Name())
	assert.Equal(t, ".md", tr.FileExtension())

	out, err := tr.Translate(m)
	require.NoError(t, err)
	result := string(out)

	assert.Contains(t, result, "# demo")
	assert.Contains(t, result, "## Person")
	assert.Contains(t, result, "A person.")
	assert.Contains(t, result, "| `home` | [Address](#address) | `[0..1]` |")
	assert.Contains(t, result, `Contact \| primary`)
	assert.Contains(t, result, "format: `email`")
	assert.Contains(t, result, "- `zip_string`: `$this.zip->matches('[0-9]{5}')`")
	assert.Contains(t, result, "## Color")
	assert.Contains(t, result, "| `red` | `red` |")

	// Address is documented before Person, which uses it.
	assert.Less(t, strings.Index(result, "## Address"), strings.Index(result, "## Person"))
}
