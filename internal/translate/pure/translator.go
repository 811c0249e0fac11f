// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package pure renders models as Pure grammar text.
package pure

import (
	"bytes"
	"strings"

	"github.com/dacolabs/pureschema/internal/model"
)

const indent = "  "

// Translator renders a model as Pure declarations.
type Translator struct{}

// Name returns the translator's identifier.
func (t *Translator) Name() string {
	return "pure"
}

// FileExtension returns the file extension for Pure files.
func (t *Translator) FileExtension() string {
	return ".pure"
}

// Translate renders m in declaration order: the profiles, then enumerations,
// then functions, then classes with superclasses and property types first.
func (t *Translator) Translate(m *model.Model) ([]byte, error) {
	var buf bytes.Buffer
	w := &writer{buf: &buf}

	for _, p := range m.Profiles {
		w.profile(p)
	}
	for _, e := range m.Enums {
		w.enum(e)
	}
	for _, f := range m.Functions {
		w.function(f)
	}
	for _, c := range ClassOrder(m) {
		w.class(c)
	}
	return buf.Bytes(), nil
}

// ClassOrder sorts classes so that every superclass and class-typed property
// type precedes its user. Cycles are broken at the first revisit.
func ClassOrder(m *model.Model) []*model.Class {
	out := make([]*model.Class, 0, len(m.Classes))
	visited := make(map[*model.Class]bool)
	var visit func(c *model.Class)
	visit = func(c *model.Class) {
		if c == nil || visited[c] {
			return
		}
		visited[c] = true
		visit(m.Class(c.Superclass))
		for _, p := range c.Properties {
			visit(m.Class(p.Type))
		}
		out = append(out, c)
	}
	for _, c := range m.Classes {
		visit(c)
	}
	return out
}

type writer struct {
	buf *bytes.Buffer
}

// start separates top-level declarations with a blank line.
func (w *writer) start() {
	if w.buf.Len() > 0 {
		w.buf.WriteString("\n")
	}
}

func (w *writer) line(depth int, s string) {
	w.buf.WriteString(strings.Repeat(indent, depth))
	w.buf.WriteString(s)
	w.buf.WriteString("\n")
}

func (w *writer) profile(p *model.Profile) {
	w.start()
	w.line(0, "Profile "+p.Path)
	w.line(0, "{")
	if len(p.Stereotypes) > 0 {
		w.line(1, "stereotypes: ["+strings.Join(p.Stereotypes, ", ")+"];")
	}
	if len(p.Tags) > 0 {
		w.line(1, "tags: ["+strings.Join(p.Tags, ", ")+"];")
	}
	w.line(0, "}")
}

func (w *writer) enum(e *model.Enum) {
	w.start()
	w.line(0, header("Enum", &e.Annotations, e.Path))
	w.line(0, "{")
	for i, v := range e.Values {
		s := prefixed(&v.Annotations, v.Name)
		if i < len(e.Values)-1 {
			s += ","
		}
		w.line(1, s)
	}
	w.line(0, "}")
}

func (w *writer) function(f *model.Function) {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	w.start()
	w.line(0, header("function", &f.Annotations, f.Path)+"("+strings.Join(params, ", ")+"): "+
		f.ReturnType+f.ReturnMultiplicity.String())
	w.line(0, "{")
	if f.Body != nil {
		w.line(1, f.Body.String())
	}
	w.line(0, "}")
}

func (w *writer) class(c *model.Class) {
	head := header("Class", &c.Annotations, c.Path)
	if c.Superclass != "" {
		head += " extends " + c.Superclass
	}
	w.start()
	w.line(0, head)
	if len(c.Constraints) > 0 {
		w.line(0, "[")
		for i, con := range c.Constraints {
			s := con.Name + ": " + con.Expr.String()
			if i < len(c.Constraints)-1 {
				s += ","
			}
			w.line(1, s)
		}
		w.line(0, "]")
	}
	w.line(0, "{")
	for _, p := range c.Properties {
		s := prefixed(&p.Annotations, model.QuoteName(p.Name)) + ": " + p.Type + p.Multiplicity.String()
		if p.Default != nil {
			s += " = " + p.Default.String()
		}
		w.line(1, s+";")
	}
	w.line(0, "}")
}

func header(keyword string, a *model.Annotations, path string) string {
	return keyword + " " + prefixed(a, path)
}

// prefixed puts stereotypes and tagged values in front of name.
func prefixed(a *model.Annotations, name string) string {
	var parts []string
	if len(a.Stereotypes) > 0 {
		refs := make([]string, len(a.Stereotypes))
		for i, s := range a.Stereotypes {
			refs[i] = s.String()
		}
		parts = append(parts, "<<"+strings.Join(refs, ", ")+">>")
	}
	if a.Tags.Len() > 0 {
		var tags []string
		for ref, values := range a.Tags.All() {
			for _, v := range values {
				tags = append(tags, ref.String()+" = "+model.QuoteString(v))
			}
		}
		parts = append(parts, "{"+strings.Join(tags, ", ")+"}")
	}
	return strings.Join(append(parts, name), " ")
}
