// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package markdown renders generated models as markdown documentation.
package markdown

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/dacolabs/pureschema/internal/model"
	"github.com/dacolabs/pureschema/internal/translate/pure"
)

//go:embed markdown.go.tmpl
var tmplFS embed.FS

var funcMap = template.FuncMap{
	"name":        model.ElementName,
	"typeLink":    typeLink,
	"cell":        cell,
	"annotations": annotations,
}

var tmpl = template.Must(template.New("markdown.go.tmpl").Funcs(funcMap).ParseFS(tmplFS, "markdown.go.tmpl"))

// Translator translates models to markdown documentation.
type Translator struct{}

// Name returns the translator's identifier.
func (t *Translator) Name() string {
	return "markdown"
}

// FileExtension returns the file extension for markdown files.
func (t *Translator) FileExtension() string {
	return ".md"
}

type templateData struct {
	Model     *model.Model
	Classes   []*model.Class
	Enums     []*model.Enum
	Functions []*model.Function
}

// Translate converts a model to markdown documentation.
func (t *Translator) Translate(m *model.Model) ([]byte, error) {
	data := templateData{
		Model:     m,
		Classes:   pure.ClassOrder(m),
		Enums:     m.Enums,
		Functions: m.Functions,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "markdown.go.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.Bytes(), nil
}

// typeLink links class and enumeration types to their section.
func typeLink(m *model.Model, typ string) string {
	if model.IsPrimitive(typ) {
		return typ
	}
	name := model.ElementName(typ)
	if m.Class(typ) != nil || m.Enum(typ) != nil {
		return "[" + name + "](#" + strings.ToLower(name) + ")"
	}
	return name
}

// cell escapes text for use inside a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// annotations lists stereotypes and non-doc tags as short labels.
func annotations(a model.Annotations) string {
	var parts []string
	for _, s := range a.Stereotypes {
		parts = append(parts, s.Value)
	}
	for ref, values := range a.Tags.All() {
		if ref.Profile == model.DocProfile {
			continue
		}
		for _, v := range values {
			parts = append(parts, fmt.Sprintf("%s: `%s`", ref.Tag, v))
		}
	}
	return cell(strings.Join(parts, ", "))
}
