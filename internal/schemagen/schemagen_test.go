// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schemagen

import (
	"errors"
	"strings"
	"testing"

	"github.com/dacolabs/pureschema/internal/jschema"
	"github.com/dacolabs/pureschema/internal/model"
	"github.com/dacolabs/pureschema/internal/translate"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pkg     = "meta::demo"
	profile = pkg + "::" + model.SchemaProfileName
)

func stereotype(value string) model.Stereotype {
	return model.Stereotype{Profile: profile, Value: value}
}

func schemaTag(tag string) model.TagRef {
	return model.TagRef{Profile: profile, Tag: tag}
}

func personModel() *model.Model {
	color := &model.Enum{Path: pkg + "::Color", Values: []*model.EnumValue{{Name: "RED"}, {Name: "dark_blue"}}}
	color.Values[1].Tags.Add(schemaTag(model.TagName), "dark blue")

	named := &model.Class{Path: pkg + "::Named", Properties: []*model.Property{
		{Name: "name", Type: model.String, Multiplicity: model.One},
	}}
	address := &model.Class{Path: pkg + "::Address", Properties: []*model.Property{
		{Name: "city", Type: model.String, Multiplicity: model.One},
	}}

	home := &model.Property{Name: "home", Type: pkg + "::Address", Multiplicity: model.ZeroOne}
	home.AddStereotype(stereotype(model.StereotypeNullable))
	nickname := &model.Property{Name: "nickname", Type: model.String, Multiplicity: model.ZeroOne}
	nickname.AddStereotype(stereotype(model.StereotypeNullable))
	nickname.AddStereotype(stereotype(model.StereotypeReadOnly))
	email := &model.Property{Name: "email", Type: model.String, Multiplicity: model.One}
	email.Tags.Add(schemaTag(model.TagFormat), "email")
	email.Tags.Add(schemaTag("x_pii"), "true")
	email.Tags.Add(model.TagRef{Profile: model.DocProfile, Tag: model.TagDoc}, "Contact address")

	person := &model.Class{Path: pkg + "::Person", Superclass: pkg + "::Named", Properties: []*model.Property{
		{Name: "age", Type: model.Integer, Multiplicity: model.ZeroOne, Default: model.Lit(int64(18))},
		home,
		{Name: "tags", Type: model.String, Multiplicity: model.OneMany},
		{Name: "color", Type: pkg + "::Color", Multiplicity: model.One, Default: model.EnumValueRef{Enum: pkg + "::Color", Value: "dark_blue"}},
		nickname,
		{Name: "parent", Type: pkg + "::Person", Multiplicity: model.ZeroOne},
		email,
		{Name: "born", Type: model.StrictDate, Multiplicity: model.ZeroOne},
		{Name: "scores", Type: model.Float, Multiplicity: model.Multiplicity{Lower: 0, Upper: 3}},
	}}
	person.Tags.Add(schemaTag(model.TagTitle), "A person")

	return &model.Model{
		Package: pkg,
		Classes: []*model.Class{named, address, person},
		Enums:   []*model.Enum{color},
	}
}

func generateOne(t *testing.T, m *model.Model, name string) *jsonschema.Schema {
	t.Helper()
	docs, err := Generate(m, []string{name})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	return docs[0].Schema
}

func TestGenerate_Person(t *testing.T) {
	s := generateOne(t, personModel(), "Person")

	assert.Equal(t, Draft07, s.Schema)
	assert.Equal(t, "A person", s.Title)
	assert.Equal(t, "object", s.Type)
	require.Len(t, s.AllOf, 1)
	assert.Equal(t, "#/definitions/Named", s.AllOf[0].Ref)
	assert.Equal(t, []string{"age", "home", "tags", "color", "nickname", "parent", "email", "born", "scores"}, s.PropertyOrder)
	assert.Equal(t, []string{"tags", "color", "email"}, s.Required)

	props := s.Properties
	assert.Equal(t, "integer", props["age"].Type)
	assert.JSONEq(t, `18`, string(props["age"].Default))

	require.Len(t, props["home"].AnyOf, 2)
	assert.Equal(t, "#/definitions/Address", props["home"].AnyOf[0].Ref)
	assert.Equal(t, "null", props["home"].AnyOf[1].Type)

	tags := props["tags"]
	assert.Equal(t, "array", tags.Type)
	assert.Equal(t, "string", tags.Items.Type)
	require.NotNil(t, tags.MinItems)
	assert.Equal(t, 1, *tags.MinItems)
	assert.Nil(t, tags.MaxItems)

	assert.Equal(t, "#/definitions/Color", props["color"].Ref)
	assert.JSONEq(t, `"dark blue"`, string(props["color"].Default))

	assert.Equal(t, []string{"string", "null"}, props["nickname"].Types)
	assert.True(t, props["nickname"].ReadOnly)

	assert.Equal(t, "#", props["parent"].Ref)

	email := props["email"]
	assert.Equal(t, "string", email.Type)
	assert.Equal(t, "email", email.Format)
	assert.Equal(t, "Contact address", email.Description)
	assert.Equal(t, map[string]any{"x-pii": true}, email.Extra)

	assert.Equal(t, "date", props["born"].Format)

	scores := props["scores"]
	assert.Nil(t, scores.MinItems)
	require.NotNil(t, scores.MaxItems)
	assert.Equal(t, 3, *scores.MaxItems)
	assert.Equal(t, "number", scores.Items.Type)

	require.Len(t, s.Definitions, 3)
	assert.Equal(t, []any{"RED", "dark blue"}, s.Definitions["Color"].Enum)
	assert.Equal(t, "object", s.Definitions["Address"].Type)
	assert.Equal(t, []string{"name"}, s.Definitions["Named"].Required)
}

func TestGenerate_DefinitionNameCollision(t *testing.T) {
	m := &model.Model{Package: pkg, Classes: []*model.Class{
		{Path: pkg + "::a::Item", Properties: []*model.Property{{Name: "x", Type: model.Integer, Multiplicity: model.One}}},
		{Path: pkg + "::b::Item", Properties: []*model.Property{{Name: "y", Type: model.Boolean, Multiplicity: model.One}}},
		{Path: pkg + "::Order", Properties: []*model.Property{
			{Name: "first", Type: pkg + "::a::Item", Multiplicity: model.One},
			{Name: "second", Type: pkg + "::b::Item", Multiplicity: model.One},
			{Name: "again", Type: pkg + "::a::Item", Multiplicity: model.ZeroMany},
		}},
	}}

	s := generateOne(t, m, "Order")
	assert.Equal(t, "#/definitions/Item", s.Properties["first"].Ref)
	assert.Equal(t, "#/definitions/Item2", s.Properties["second"].Ref)
	assert.Equal(t, "#/definitions/Item", s.Properties["again"].Items.Ref)
	assert.Len(t, s.Definitions, 2)
}

func TestGenerate_NullableEnumAndWideTypes(t *testing.T) {
	level := &model.Enum{Path: pkg + "::Level", Values: []*model.EnumValue{{Name: "LOW"}, {Name: "HIGH"}}}
	level.AddStereotype(stereotype(model.StereotypeNullable))
	m := &model.Model{
		Package: pkg,
		Enums:   []*model.Enum{level},
		Classes: []*model.Class{{Path: pkg + "::Reading", Properties: []*model.Property{
			{Name: "level", Type: pkg + "::Level", Multiplicity: model.ZeroOne},
			{Name: "value", Type: model.Number, Multiplicity: model.One},
			{Name: "at", Type: model.Date, Multiplicity: model.One},
			{Name: "raw", Type: model.Any, Multiplicity: model.ZeroOne},
		}}},
	}

	s := generateOne(t, m, "meta::demo::Reading")
	assert.Equal(t, "Reading", s.Title)
	lvl := s.Definitions["Level"]
	assert.Equal(t, []string{"string", "null"}, lvl.Types)
	assert.Equal(t, []any{"LOW", "HIGH", nil}, lvl.Enum)
	assert.Equal(t, []string{"integer", "number"}, s.Properties["value"].Types)
	require.Len(t, s.Properties["at"].AnyOf, 2)
	assert.Equal(t, "date-time", s.Properties["at"].AnyOf[1].Format)
	assert.True(t, jschema.IsEmpty(s.Properties["raw"]))
}

func TestGenerate_UnknownElements(t *testing.T) {
	m := personModel()

	_, err := Generate(m, []string{"Missing"})
	var unknown *UnknownElementError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Missing", unknown.Name)
	assert.Equal(t, `unknown element "Missing"`, err.Error())

	m.Classes[1].Properties = append(m.Classes[1].Properties,
		&model.Property{Name: "zip", Type: pkg + "::Zip", Multiplicity: model.One})
	_, err = Generate(m, []string{"Person"})
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "meta::demo::Zip", unknown.Name)
	assert.Equal(t, "meta::demo::Address.zip", unknown.Context)
}

func TestEncode_JSON(t *testing.T) {
	s := generateOne(t, personModel(), "Person")

	out, err := Encode(s, jschema.JSON)
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, `"$schema": "http://json-schema.org/draft-07/schema#"`)
	assert.Contains(t, text, "\n  \"type\": \"object\"")
	assert.True(t, strings.HasSuffix(text, "}\n"))
	assert.Less(t, strings.Index(text, `"tags"`), strings.Index(text, `"color"`))
	assert.Less(t, strings.Index(text, `"email"`), strings.Index(text, `"born"`))

	again, err := Encode(generateOne(t, personModel(), "Person"), jschema.JSON)
	require.NoError(t, err)
	assert.Equal(t, text, string(again))
}

func TestEncode_YAML(t *testing.T) {
	s := generateOne(t, personModel(), "Person")

	out, err := Encode(s, jschema.YAML)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "{")
	assert.Contains(t, string(out), "type: object")

	back, err := jschema.Parse(out, jschema.YAML)
	require.NoError(t, err)
	assert.Equal(t, s.PropertyOrder, back.PropertyOrder)
	assert.Equal(t, s.Required, back.Required)
	assert.Equal(t, "#/definitions/Color", back.Properties["color"].Ref)
	assert.Equal(t, []any{"RED", "dark blue"}, back.Definitions["Color"].Enum)
}

func TestExtensionRoundTrip(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {
			"id": {
				"type": "string",
				"x-code": "123",
				"x-flag": "true",
				"x-label": "plain",
				"x-count": 4,
				"x-enabled": false,
				"x-meta": {"a": [1, "b"]}
			}
		}
	}`
	doc, err := jschema.NewReader(nil).Read("Record.json", []byte(schema))
	require.NoError(t, err)
	m, err := translate.Generate(doc, translate.Options{Package: pkg})
	require.NoError(t, err)

	code, _ := m.Class(pkg+"::Record").Property("id").TagValue(model.SchemaProfileName, "x_code")
	assert.Equal(t, `"123"`, code)

	s := generateOne(t, m, "Record")
	assert.Equal(t, map[string]any{
		"x-code":    "123",
		"x-flag":    "true",
		"x-label":   "plain",
		"x-count":   float64(4),
		"x-enabled": false,
		"x-meta":    map[string]any{"a": []any{float64(1), "b"}},
	}, s.Properties["id"].Extra)
}

func TestExtensionValue_PlainText(t *testing.T) {
	assert.Equal(t, "hand written", extensionValue("hand written"))
	assert.Equal(t, "quoted", extensionValue(`"quoted"`))
	assert.Equal(t, true, extensionValue("true"))
}
