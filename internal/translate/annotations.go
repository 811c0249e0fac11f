// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"strings"

	"github.com/dacolabs/pureschema/internal/jschema"
	"github.com/dacolabs/pureschema/internal/model"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/jsonschema-go/jsonschema"
)

// ExtensionTag maps a vendor extension keyword to a profile tag name:
// "x-foo-bar" becomes "x_foo_bar".
func ExtensionTag(keyword string) string {
	return "x_" + SanitizeIdentifier(strings.TrimPrefix(keyword, "x-"))
}

// ExtensionKeyword is the inverse of ExtensionTag. Underscores in the
// original keyword cannot be told apart from dashes and come back as dashes.
func ExtensionKeyword(tag string) string {
	return "x-" + strings.ReplaceAll(strings.TrimPrefix(tag, "x_"), "_", "-")
}

func (g *generator) schemaProfile() *model.Profile {
	if g.profile == nil {
		g.profile = &model.Profile{Path: model.QualifiedName(g.pkg, model.SchemaProfileName)}
		g.m.Profiles = append(g.m.Profiles, g.profile)
	}
	return g.profile
}

func (g *generator) stereotype(a *model.Annotations, value string) {
	p := g.schemaProfile()
	p.AddStereotype(value)
	a.AddStereotype(model.Stereotype{Profile: p.Path, Value: value})
}

func (g *generator) tag(a *model.Annotations, tag, value string) {
	p := g.schemaProfile()
	p.AddTag(tag)
	a.Tags.Add(model.TagRef{Profile: p.Path, Tag: tag}, value)
}

// annotate copies documentation and metadata keywords shared by every
// element kind.
func (g *generator) annotate(a *model.Annotations, s *jsonschema.Schema) {
	if s.Description != "" {
		a.Tags.Add(model.TagRef{Profile: model.DocProfile, Tag: model.TagDoc}, s.Description)
	}
	if s.Deprecated {
		a.AddStereotype(model.Stereotype{Profile: model.DocProfile, Value: model.StereotypeDeprecate})
	}
	if s.Title != "" {
		g.tag(a, model.TagTitle, s.Title)
	}
	if s.ReadOnly {
		g.stereotype(a, model.StereotypeReadOnly)
	}
	if s.WriteOnly {
		g.stereotype(a, model.StereotypeWriteOnly)
	}
	for _, key := range jschema.SortedKeys(s.Extra) {
		if strings.HasPrefix(key, "x-") {
			g.tag(a, ExtensionTag(key), extensionValue(s.Extra[key]))
		}
	}
}

func (g *generator) annotateProperty(p *model.Property, s *jsonschema.Schema, format string, nullable bool) {
	g.annotate(&p.Annotations, s)
	if nullable {
		g.stereotype(&p.Annotations, model.StereotypeNullable)
	}
	if format != "" {
		g.tag(&p.Annotations, model.TagFormat, format)
	}
	if len(s.Default) > 0 {
		g.defaults = append(g.defaults, pendingDefault{prop: p, raw: s.Default})
	}
}

// extensionValue renders a vendor extension value as tag text. Every value,
// strings included, is stored as JSON so that "123" and 123 stay distinct.
func extensionValue(v any) string {
	b, err := json.Marshal(v, json.Deterministic(true))
	if err != nil {
		return ""
	}
	return string(b)
}

func decodeJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func compactJSON(raw []byte) string {
	v := jsontext.Value(append([]byte(nil), raw...))
	if err := v.Compact(); err != nil {
		return string(raw)
	}
	return string(v)
}
