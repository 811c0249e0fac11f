// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package model

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// The YAML document mirrors the model; expressions are kept as Pure text.

type yamlModel struct {
	Package   string         `yaml:"package,omitempty"`
	Profiles  []yamlProfile  `yaml:"profiles,omitempty"`
	Enums     []yamlEnum     `yaml:"enums,omitempty"`
	Functions []yamlFunction `yaml:"functions,omitempty"`
	Classes   []yamlClass    `yaml:"classes,omitempty"`
}

type yamlProfile struct {
	Path        string   `yaml:"path"`
	Stereotypes []string `yaml:"stereotypes,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

type yamlAnnotations struct {
	Stereotypes []string  `yaml:"stereotypes,omitempty"`
	Tags        []yamlTag `yaml:"tags,omitempty"`
}

type yamlTag struct {
	Tag   string `yaml:"tag"`
	Value string `yaml:"value"`
}

type yamlEnum struct {
	Path            string          `yaml:"path"`
	yamlAnnotations `yaml:",inline"`
	Default         string          `yaml:"default,omitempty"`
	Values          []yamlEnumValue `yaml:"values"`
}

type yamlEnumValue struct {
	Name            string `yaml:"name"`
	yamlAnnotations `yaml:",inline"`
}

type yamlParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type yamlFunction struct {
	Path    string      `yaml:"path"`
	Params  []yamlParam `yaml:"params"`
	Returns string      `yaml:"returns"`
	Body    string      `yaml:"body"`
}

type yamlClass struct {
	Path            string           `yaml:"path"`
	Superclass      string           `yaml:"superclass,omitempty"`
	yamlAnnotations `yaml:",inline"`
	Properties      []yamlProperty   `yaml:"properties,omitempty"`
	Constraints     []yamlConstraint `yaml:"constraints,omitempty"`
}

type yamlProperty struct {
	Name            string `yaml:"name"`
	Type            string `yaml:"type"`
	Multiplicity    string `yaml:"multiplicity"`
	Default         string `yaml:"default,omitempty"`
	yamlAnnotations `yaml:",inline"`
}

type yamlConstraint struct {
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`
}

// Encode writes m as a YAML model document.
func Encode(w io.Writer, m *Model) error {
	doc := yamlModel{Package: m.Package}
	for _, p := range m.Profiles {
		doc.Profiles = append(doc.Profiles, yamlProfile(*p))
	}
	for _, e := range m.Enums {
		ye := yamlEnum{Path: e.Path, yamlAnnotations: encodeAnnotations(&e.Annotations), Default: e.Default}
		for _, v := range e.Values {
			ye.Values = append(ye.Values, yamlEnumValue{Name: v.Name, yamlAnnotations: encodeAnnotations(&v.Annotations)})
		}
		doc.Enums = append(doc.Enums, ye)
	}
	for _, f := range m.Functions {
		yf := yamlFunction{Path: f.Path, Returns: f.ReturnType + f.ReturnMultiplicity.String()}
		for _, p := range f.Params {
			yf.Params = append(yf.Params, yamlParam{Name: p.Name, Type: p.Type + p.Multiplicity.String()})
		}
		if f.Body != nil {
			yf.Body = f.Body.String()
		}
		doc.Functions = append(doc.Functions, yf)
	}
	for _, c := range m.Classes {
		yc := yamlClass{Path: c.Path, Superclass: c.Superclass, yamlAnnotations: encodeAnnotations(&c.Annotations)}
		for _, p := range c.Properties {
			yp := yamlProperty{
				Name:            p.Name,
				Type:            p.Type,
				Multiplicity:    p.Multiplicity.String(),
				yamlAnnotations: encodeAnnotations(&p.Annotations),
			}
			if p.Default != nil {
				yp.Default = p.Default.String()
			}
			yc.Properties = append(yc.Properties, yp)
		}
		for _, con := range c.Constraints {
			yc.Constraints = append(yc.Constraints, yamlConstraint{Name: con.Name, Expression: con.Expr.String()})
		}
		doc.Classes = append(doc.Classes, yc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func encodeAnnotations(a *Annotations) yamlAnnotations {
	var ya yamlAnnotations
	for _, s := range a.Stereotypes {
		ya.Stereotypes = append(ya.Stereotypes, s.String())
	}
	for ref, values := range a.Tags.All() {
		for _, v := range values {
			ya.Tags = append(ya.Tags, yamlTag{Tag: ref.String(), Value: v})
		}
	}
	return ya
}

// Decode reads a YAML model document. Relative element names are qualified
// with the document package. The decoded model is validated.
func Decode(r io.Reader) (*Model, error) {
	var doc yamlModel
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}

	m := &Model{Package: doc.Package}
	for _, p := range doc.Profiles {
		m.Profiles = append(m.Profiles, &Profile{Path: m.Resolve(p.Path), Stereotypes: p.Stereotypes, Tags: p.Tags})
	}

	for _, ye := range doc.Enums {
		e := &Enum{Path: m.Resolve(ye.Path), Default: ye.Default}
		if err := decodeAnnotations(&e.Annotations, ye.yamlAnnotations); err != nil {
			return nil, fmt.Errorf("enum %s: %w", e.Path, err)
		}
		for _, yv := range ye.Values {
			v := &EnumValue{Name: yv.Name}
			if err := decodeAnnotations(&v.Annotations, yv.yamlAnnotations); err != nil {
				return nil, fmt.Errorf("enum %s: value %s: %w", e.Path, yv.Name, err)
			}
			e.Values = append(e.Values, v)
		}
		m.Enums = append(m.Enums, e)
	}

	for _, yf := range doc.Functions {
		f := &Function{Path: m.Resolve(yf.Path), Body: Raw{Text: yf.Body}}
		var err error
		f.ReturnType, f.ReturnMultiplicity, err = splitTyped(yf.Returns)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", f.Path, err)
		}
		for _, yp := range yf.Params {
			t, mult, err := splitTyped(yp.Type)
			if err != nil {
				return nil, fmt.Errorf("function %s: parameter %s: %w", f.Path, yp.Name, err)
			}
			f.Params = append(f.Params, Param{Name: yp.Name, Type: m.Resolve(t), Multiplicity: mult})
		}
		m.Functions = append(m.Functions, f)
	}

	for _, yc := range doc.Classes {
		c := &Class{Path: m.Resolve(yc.Path), Superclass: m.Resolve(yc.Superclass)}
		if err := decodeAnnotations(&c.Annotations, yc.yamlAnnotations); err != nil {
			return nil, fmt.Errorf("class %s: %w", c.Path, err)
		}
		for _, yp := range yc.Properties {
			mult, err := ParseMultiplicity(yp.Multiplicity)
			if err != nil {
				return nil, fmt.Errorf("class %s: property %s: %w", c.Path, yp.Name, err)
			}
			p := &Property{Name: yp.Name, Type: m.Resolve(yp.Type), Multiplicity: mult}
			if yp.Default != "" {
				p.Default = ParseLiteral(yp.Default)
			}
			if err := decodeAnnotations(&p.Annotations, yp.yamlAnnotations); err != nil {
				return nil, fmt.Errorf("class %s: property %s: %w", c.Path, yp.Name, err)
			}
			c.Properties = append(c.Properties, p)
		}
		for _, ycon := range yc.Constraints {
			c.Constraints = append(c.Constraints, Constraint{Name: ycon.Name, Expr: Raw{Text: ycon.Expression}})
		}
		m.Classes = append(m.Classes, c)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeAnnotations(a *Annotations, ya yamlAnnotations) error {
	for _, s := range ya.Stereotypes {
		st, err := ParseStereotype(s)
		if err != nil {
			return err
		}
		a.AddStereotype(st)
	}
	for _, t := range ya.Tags {
		ref, err := ParseTagRef(t.Tag)
		if err != nil {
			return err
		}
		a.Tags.Add(ref, t.Value)
	}
	return nil
}

// splitTyped splits "Type[mult]".
func splitTyped(s string) (string, Multiplicity, error) {
	i := strings.Index(s, "[")
	if i <= 0 {
		return "", Multiplicity{}, fmt.Errorf("invalid type %q: expected Type[multiplicity]", s)
	}
	mult, err := ParseMultiplicity(s[i:])
	if err != nil {
		return "", Multiplicity{}, err
	}
	return strings.TrimSpace(s[:i]), mult, nil
}
