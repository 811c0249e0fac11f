// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package schemagen generates JSON Schema documents from a model.
package schemagen

import (
	"strconv"
	"strings"

	"github.com/dacolabs/pureschema/internal/model"
	"github.com/dacolabs/pureschema/internal/translate"
	"github.com/go-json-experiment/json"
	"github.com/google/jsonschema-go/jsonschema"
)

// Draft07 is the $schema of every generated document.
const Draft07 = "http://json-schema.org/draft-07/schema#"

// Document is the schema generated for one class.
type Document struct {
	// Name is the simple name of the class, used for the file name.
	Name   string
	Path   string
	Schema *jsonschema.Schema
}

// Generate returns one schema document per included class, in the order
// given. Names may be qualified or relative to the model package.
//
// Classes and enumerations the document refers to are placed under
// definitions once each; the root class refers to itself with "#".
// Constraints are not translated back.
func Generate(m *model.Model, include []string) ([]Document, error) {
	var docs []Document
	for _, name := range include {
		c := m.Class(m.Resolve(name))
		if c == nil {
			return nil, &UnknownElementError{Name: name}
		}
		s, err := newDocBuilder(m, c).build()
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Name: c.Name(), Path: c.Path, Schema: s})
	}
	return docs, nil
}

type docBuilder struct {
	m    *model.Model
	root *model.Class
	defs map[string]*jsonschema.Schema
	// names maps element paths to definition names.
	names map[string]string
	taken map[string]bool
}

func newDocBuilder(m *model.Model, root *model.Class) *docBuilder {
	return &docBuilder{
		m:     m,
		root:  root,
		defs:  make(map[string]*jsonschema.Schema),
		names: make(map[string]string),
		taken: make(map[string]bool),
	}
}

func (b *docBuilder) build() (*jsonschema.Schema, error) {
	s, err := b.class(b.root)
	if err != nil {
		return nil, err
	}
	s.Schema = Draft07
	if s.Title == "" {
		s.Title = b.root.Name()
	}
	if len(b.defs) > 0 {
		s.Definitions = b.defs
	}
	return s, nil
}

// ref returns the reference for a class or enumeration, adding its
// definition on first use.
func (b *docBuilder) ref(path string) (*jsonschema.Schema, error) {
	if path == b.root.Path {
		return &jsonschema.Schema{Ref: "#"}, nil
	}
	if name, ok := b.names[path]; ok {
		return &jsonschema.Schema{Ref: "#/definitions/" + name}, nil
	}

	name := model.ElementName(path)
	for i := 2; b.taken[name] || name == b.root.Name(); i++ {
		name = model.ElementName(path) + strconv.Itoa(i)
	}
	b.taken[name] = true
	b.names[path] = name

	// Register before building so cycles terminate.
	def := &jsonschema.Schema{}
	b.defs[name] = def
	var (
		built *jsonschema.Schema
		err   error
	)
	if c := b.m.Class(path); c != nil {
		built, err = b.class(c)
	} else {
		built = b.enum(b.m.Enum(path))
	}
	if err != nil {
		return nil, err
	}
	*def = *built
	return &jsonschema.Schema{Ref: "#/definitions/" + name}, nil
}

func (b *docBuilder) class(c *model.Class) (*jsonschema.Schema, error) {
	s := &jsonschema.Schema{Type: "object"}
	annotate(s, &c.Annotations)

	if c.Superclass != "" {
		if b.m.Class(c.Superclass) == nil {
			return nil, &UnknownElementError{Name: c.Superclass, Context: c.Path}
		}
		super, err := b.ref(c.Superclass)
		if err != nil {
			return nil, err
		}
		s.AllOf = []*jsonschema.Schema{super}
	}

	for _, p := range c.Properties {
		ps, err := b.property(c, p)
		if err != nil {
			return nil, err
		}
		if s.Properties == nil {
			s.Properties = make(map[string]*jsonschema.Schema)
		}
		s.Properties[p.Name] = ps
		s.PropertyOrder = append(s.PropertyOrder, p.Name)
		if p.Multiplicity.IsRequired() {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s, nil
}

func (b *docBuilder) property(c *model.Class, p *model.Property) (*jsonschema.Schema, error) {
	if !b.m.IsType(p.Type) {
		return nil, &UnknownElementError{Name: p.Type, Context: c.Path + "." + p.Name}
	}
	nullable := p.HasStereotype(model.SchemaProfileName, model.StereotypeNullable)

	value, err := b.value(p.Type)
	if err != nil {
		return nil, err
	}
	if format, ok := p.TagValue(model.SchemaProfileName, model.TagFormat); ok && value.Format == "" && value.Ref == "" {
		value.Format = format
	}

	var s *jsonschema.Schema
	if p.Multiplicity.IsMany() {
		s = &jsonschema.Schema{Type: "array", Items: value}
		if p.Multiplicity.Lower > 0 {
			s.MinItems = intPtr(p.Multiplicity.Lower)
		}
		if p.Multiplicity.Upper != model.Many {
			s.MaxItems = intPtr(p.Multiplicity.Upper)
		}
		if nullable {
			s.Types, s.Type = []string{"array", "null"}, ""
		}
	} else {
		s = value
		if nullable {
			s = withNull(s)
		}
	}

	annotate(s, &p.Annotations)
	if raw := b.defaultValue(p); raw != nil {
		s.Default = raw
	}
	return s, nil
}

// value returns the schema for one value of type t.
func (b *docBuilder) value(t string) (*jsonschema.Schema, error) {
	switch t {
	case model.String:
		return &jsonschema.Schema{Type: "string"}, nil
	case model.Integer:
		return &jsonschema.Schema{Type: "integer"}, nil
	case model.Float, model.Decimal:
		return &jsonschema.Schema{Type: "number"}, nil
	case model.Number:
		return &jsonschema.Schema{Types: []string{"integer", "number"}}, nil
	case model.Boolean:
		return &jsonschema.Schema{Type: "boolean"}, nil
	case model.StrictDate:
		return &jsonschema.Schema{Type: "string", Format: "date"}, nil
	case model.DateTime:
		return &jsonschema.Schema{Type: "string", Format: "date-time"}, nil
	case model.Date:
		return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{
			{Type: "string", Format: "date"},
			{Type: "string", Format: "date-time"},
		}}, nil
	case model.Any:
		return &jsonschema.Schema{}, nil
	}
	return b.ref(t)
}

// withNull widens a value schema to admit null.
func withNull(s *jsonschema.Schema) *jsonschema.Schema {
	switch {
	case s.Ref != "" || len(s.AnyOf) > 0:
		branches := []*jsonschema.Schema{s}
		if s.Ref == "" {
			branches = s.AnyOf
		}
		return &jsonschema.Schema{AnyOf: append(branches, &jsonschema.Schema{Type: "null"})}
	case s.Type != "":
		s.Types, s.Type = []string{s.Type, "null"}, ""
	case len(s.Types) > 0:
		s.Types = append(s.Types, "null")
	}
	return s
}

func (b *docBuilder) enum(e *model.Enum) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "string"}
	annotate(s, &e.Annotations)
	for _, lit := range e.Literals() {
		s.Enum = append(s.Enum, lit)
	}
	if e.HasStereotype(model.SchemaProfileName, model.StereotypeNullable) {
		s.Types, s.Type = []string{"string", "null"}, ""
		s.Enum = append(s.Enum, nil)
	}
	if e.Default != "" {
		if v := e.Value(e.Default); v != nil {
			s.Default = marshal(v.Literal())
		}
	}
	return s
}

// defaultValue renders a property default, or the JSON kept in the default
// tag when the default had no model form.
func (b *docBuilder) defaultValue(p *model.Property) []byte {
	switch d := p.Default.(type) {
	case model.Literal:
		return marshal(d.Value)
	case model.EnumValueRef:
		if e := b.m.Enum(d.Enum); e != nil {
			if v := e.Value(d.Value); v != nil {
				return marshal(v.Literal())
			}
		}
	}
	if raw, ok := p.TagValue(model.SchemaProfileName, model.TagDefault); ok {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return []byte(raw)
		}
	}
	return nil
}

// annotate maps documentation, stereotypes and tags back to keywords.
func annotate(s *jsonschema.Schema, a *model.Annotations) {
	if doc := a.Doc(); doc != "" {
		s.Description = doc
	}
	if title, ok := a.TagValue(model.SchemaProfileName, model.TagTitle); ok {
		s.Title = title
	}
	s.ReadOnly = a.HasStereotype(model.SchemaProfileName, model.StereotypeReadOnly)
	s.WriteOnly = a.HasStereotype(model.SchemaProfileName, model.StereotypeWriteOnly)
	s.Deprecated = a.HasStereotype(model.DocProfile, model.StereotypeDeprecate)

	for ref, values := range a.Tags.All() {
		if !strings.HasPrefix(ref.Tag, "x_") || len(values) == 0 || !isSchemaProfile(ref.Profile) {
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string]any)
		}
		s.Extra[translate.ExtensionKeyword(ref.Tag)] = extensionValue(values[0])
	}
}

func isSchemaProfile(profile string) bool {
	return profile == model.SchemaProfileName || strings.HasSuffix(profile, "::"+model.SchemaProfileName)
}

// extensionValue decodes extension tag text, which holds JSON. Hand-written
// text that is not JSON stays a string.
func extensionValue(text string) any {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return text
	}
	return v
}

func marshal(v any) []byte {
	b, err := json.Marshal(v, json.Deterministic(true))
	if err != nil {
		return nil
	}
	return b
}

func intPtr(n int) *int { return &n }
