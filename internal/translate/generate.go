// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"fmt"
	"strconv"

	"github.com/dacolabs/pureschema/internal/jschema"
	"github.com/dacolabs/pureschema/internal/model"
	"github.com/google/jsonschema-go/jsonschema"
)

// Options controls model generation.
type Options struct {
	// Package is the Pure package of every generated element,
	// e.g. "meta::demo::people".
	Package string
}

type elementKind int

const (
	kindValue elementKind = iota
	kindClass
	kindEnum
	kindAlias
)

// pending is a class or enumeration that has a path but is not built yet.
type pending struct {
	schema *jsonschema.Schema
	loc    string
	kind   elementKind
	path   string
}

// pendingDefault is a property default that can only be resolved once every
// enumeration has its members.
type pendingDefault struct {
	prop *model.Property
	raw  []byte
}

type generator struct {
	doc       *jschema.Document
	pkg       string
	m         *model.Model
	names     *namer
	paths     map[*jsonschema.Schema]string
	queue     []pending
	sites     map[*jschema.Definition]int // uses found by the first pass
	uses      map[*jschema.Definition]int
	funcs     map[*jschema.Definition]*model.Function
	resolving map[*jschema.Definition]bool
	defaults  []pendingDefault
	profile   *model.Profile
}

// Generate builds a model from a resolved schema document.
//
// Object schemas become classes, string enumerations become enums, and
// validation keywords become class constraints. A constrained definition
// referenced from more than one place becomes a shared predicate function.
// Every element is placed in opts.Package.
func Generate(doc *jschema.Document, opts Options) (*model.Model, error) {
	if err := model.ValidatePackage(opts.Package); err != nil {
		return nil, err
	}

	// The first pass inlines everything and counts how often each constrained
	// definition is used as a value. The second pass knows which ones are
	// shared.
	first := newGenerator(doc, opts.Package, nil)
	if err := first.run(); err != nil {
		return nil, err
	}
	g := newGenerator(doc, opts.Package, first.uses)
	if err := g.run(); err != nil {
		return nil, err
	}

	if err := g.m.Validate(); err != nil {
		return nil, fmt.Errorf("generated model is invalid: %w", err)
	}
	return g.m, nil
}

func newGenerator(doc *jschema.Document, pkg string, sites map[*jschema.Definition]int) *generator {
	g := &generator{
		doc:       doc,
		pkg:       pkg,
		m:         &model.Model{Package: pkg},
		names:     newNamer(),
		paths:     make(map[*jsonschema.Schema]string),
		sites:     sites,
		uses:      make(map[*jschema.Definition]int),
		funcs:     make(map[*jschema.Definition]*model.Function),
		resolving: make(map[*jschema.Definition]bool),
	}
	g.names.take(model.SchemaProfileName)
	return g
}

func (g *generator) run() error {
	for _, def := range g.doc.Definitions() {
		if kind := g.kindOf(def.Schema); kind == kindClass || kind == kindEnum {
			g.declare(def.Schema, def.Location(), def.Name, kind)
		}
	}

	for len(g.queue) > 0 {
		p := g.queue[0]
		g.queue = g.queue[1:]

		var err error
		switch p.kind {
		case kindClass:
			err = g.buildClass(p)
		case kindEnum:
			g.buildEnum(p)
		}
		if err != nil {
			return err
		}
	}

	for _, d := range g.defaults {
		g.resolveDefault(d)
	}
	return nil
}

// declare assigns a unique path to a class or enumeration schema and queues
// it for building. Declaring the same schema twice returns the first path.
func (g *generator) declare(s *jsonschema.Schema, loc, name string, kind elementKind) string {
	if path, ok := g.paths[s]; ok {
		return path
	}
	base := ToPascalCase(name)
	if base == "" {
		base = "Element"
	}
	path := model.QualifiedName(g.pkg, g.names.take(base))
	g.paths[s] = path
	g.queue = append(g.queue, pending{schema: s, loc: loc, kind: kind, path: path})
	return path
}

func (g *generator) kindOf(s *jsonschema.Schema) elementKind {
	switch {
	case s.Ref != "":
		return kindAlias
	case isStringEnum(s):
		return kindEnum
	case g.isObject(s, make(map[*jsonschema.Schema]bool)):
		return kindClass
	}
	return kindValue
}

func (g *generator) isObject(s *jsonschema.Schema, seen map[*jsonschema.Schema]bool) bool {
	if jschema.HasType(s, "object") || len(s.Properties) > 0 {
		return true
	}
	if len(jschema.TypeNames(s)) > 0 || seen[s] {
		return false
	}
	seen[s] = true
	for _, part := range s.AllOf {
		if target := g.follow(part); target != nil && g.isObject(target, seen) {
			return true
		}
	}
	return false
}

// follow resolves a chain of $ref nodes to the schema it ends at, or nil
// when the chain is circular.
func (g *generator) follow(s *jsonschema.Schema) *jsonschema.Schema {
	seen := make(map[*jsonschema.Schema]bool)
	for s != nil && s.Ref != "" {
		if seen[s] {
			return nil
		}
		seen[s] = true
		def := g.doc.Resolve(s)
		if def == nil {
			return nil
		}
		s = def.Schema
	}
	return s
}

// followValue is follow restricted to value definitions: it stops at a ref
// to a class or enumeration, which are types in their own right.
func (g *generator) followValue(s *jsonschema.Schema, loc string) (*jsonschema.Schema, string, error) {
	seen := make(map[*jsonschema.Schema]bool)
	for s.Ref != "" {
		if seen[s] {
			return nil, "", &jschema.MalformedSchemaError{Path: loc, Reason: "circular reference"}
		}
		seen[s] = true
		def := g.doc.Resolve(s)
		if def == nil {
			return nil, "", &jschema.UnresolvedReferenceError{Path: loc, Ref: s.Ref}
		}
		if kind := g.kindOf(def.Schema); kind == kindClass || kind == kindEnum {
			return s, loc, nil
		}
		s, loc = def.Schema, def.Location()
	}
	return s, loc, nil
}

func (g *generator) definitionName(s *jsonschema.Schema) string {
	if def := g.doc.DefinitionOf(s); def != nil {
		return def.Name
	}
	return "Element"
}

func (g *generator) location(s *jsonschema.Schema, fallback string) string {
	if loc := g.doc.Location(s); loc != "" {
		return loc
	}
	return fallback
}

func isStringEnum(s *jsonschema.Schema) bool {
	if len(s.Enum) == 0 {
		return false
	}
	for _, t := range jschema.TypeNames(s) {
		if t != "string" && t != "null" {
			return false
		}
	}
	hasString := false
	for _, v := range s.Enum {
		switch v.(type) {
		case nil:
		case string:
			hasString = true
		default:
			return false
		}
	}
	return hasString
}

func enumNullable(s *jsonschema.Schema) bool {
	if jschema.HasType(s, "null") {
		return true
	}
	for _, v := range s.Enum {
		if v == nil {
			return true
		}
	}
	return false
}

func isNullOnly(s *jsonschema.Schema) bool {
	types := jschema.TypeNames(s)
	return len(types) == 1 && types[0] == "null"
}

// fragment is one object schema contributing properties to a class:
// the class schema itself or a merged allOf member.
type fragment struct {
	schema *jsonschema.Schema
	loc    string
}

// fragments flattens allOf. The first member that references a class becomes
// the superclass; every other member is merged.
func (g *generator) fragments(s *jsonschema.Schema, loc string, seen map[*jsonschema.Schema]bool) ([]fragment, string, error) {
	if seen[s] {
		return nil, "", &jschema.MalformedSchemaError{Path: loc, Reason: "circular allOf"}
	}
	seen[s] = true

	out := []fragment{{schema: s, loc: loc}}
	var superclass string
	for i, part := range s.AllOf {
		partLoc := loc + "/allOf/" + strconv.Itoa(i)
		if part.Ref != "" {
			target := g.follow(part)
			if target == nil {
				return nil, "", &jschema.MalformedSchemaError{Path: partLoc, Reason: "circular reference"}
			}
			targetLoc := g.location(target, partLoc)
			if superclass == "" && g.kindOf(target) == kindClass {
				superclass = g.declare(target, targetLoc, g.definitionName(target), kindClass)
				continue
			}
			merged, _, err := g.fragments(target, targetLoc, seen)
			if err != nil {
				return nil, "", err
			}
			out = append(out, merged...)
			continue
		}
		merged, sup, err := g.fragments(part, partLoc, seen)
		if err != nil {
			return nil, "", err
		}
		if superclass == "" {
			superclass = sup
		}
		out = append(out, merged...)
	}
	return out, superclass, nil
}

func (g *generator) buildClass(p pending) error {
	c := &model.Class{Path: p.path}
	g.annotate(&c.Annotations, p.schema)

	frags, superclass, err := g.fragments(p.schema, p.loc, make(map[*jsonschema.Schema]bool))
	if err != nil {
		return err
	}
	if superclass != p.path {
		c.Superclass = superclass
	}

	required := make(map[string]bool)
	for _, f := range frags {
		for _, name := range f.schema.Required {
			required[name] = true
		}
	}

	cn := newNamer()
	declared := make(map[string]bool)
	for _, f := range frags {
		for _, name := range jschema.OrderedKeys(f.schema) {
			if declared[name] {
				continue
			}
			declared[name] = true
			ps := f.schema.Properties[name]
			loc := g.location(ps, f.loc+"/properties/"+jschema.EscapePointer(name))
			if err := g.property(c, cn, name, ps, required[name], loc); err != nil {
				return err
			}
		}
	}

	for _, f := range frags {
		if err := g.classConstraints(c, cn, f); err != nil {
			return err
		}
	}

	g.m.Classes = append(g.m.Classes, c)
	return nil
}

func (g *generator) property(c *model.Class, cn *namer, name string, ps *jsonschema.Schema, required bool, loc string) error {
	hint := c.Name() + ToPascalCase(name)
	constraintName := func(group string) string {
		return cn.take(SanitizeIdentifier(name) + "_" + group)
	}

	target, targetLoc, err := g.followValue(ps, loc)
	if err != nil {
		return err
	}

	if target.Ref == "" && jschema.HasType(target, "array") {
		mult, sizeCheck := ArrayMultiplicity(target, required)
		nullable := jschema.HasType(target, "null")
		if nullable {
			mult.Lower = 0
		}

		v := valueSpec{typ: model.Any}
		if items := target.Items; items != nil {
			itemsLoc := g.location(items, targetLoc+"/items")
			itemTarget, _, err := g.followValue(items, itemsLoc)
			if err != nil {
				return err
			}
			if itemTarget.Ref == "" && jschema.HasType(itemTarget, "array") {
				return &jschema.UnsupportedKeywordError{Path: itemsLoc, Keyword: "items"}
			}
			if v, err = g.value(items, itemsLoc, hint); err != nil {
				return err
			}
		}

		prop := &model.Property{Name: name, Type: v.typ, Multiplicity: mult}
		g.annotateProperty(prop, ps, v.format, nullable)
		c.Properties = append(c.Properties, prop)

		for _, grp := range v.groups {
			c.Constraints = append(c.Constraints, itemsConstraint(constraintName(grp.name), name, grp))
		}
		if target.UniqueItems {
			c.Constraints = append(c.Constraints, uniqueConstraint(constraintName(groupUnique), name))
		}
		if sizeCheck > 0 {
			c.Constraints = append(c.Constraints, sizeConstraint(constraintName(groupSize), name, sizeCheck))
		}
		return nil
	}

	v, err := g.value(ps, loc, hint)
	if err != nil {
		return err
	}
	mult := ScalarMultiplicity(required, v.nullable)
	prop := &model.Property{Name: name, Type: v.typ, Multiplicity: mult}
	g.annotateProperty(prop, ps, v.format, v.nullable)
	c.Properties = append(c.Properties, prop)

	for _, grp := range v.groups {
		c.Constraints = append(c.Constraints, scalarConstraint(constraintName(grp.name), name, !mult.IsRequired(), grp))
	}
	return nil
}

// classConstraints turns object-level keywords of one fragment into class
// constraints: anyOf/oneOf over required-sets and dependentRequired.
func (g *generator) classConstraints(c *model.Class, cn *namer, f fragment) error {
	for _, combinator := range []struct {
		keyword  string
		branches []*jsonschema.Schema
	}{
		{groupAnyOf, f.schema.AnyOf},
		{groupOneOf, f.schema.OneOf},
	} {
		if len(combinator.branches) == 0 {
			continue
		}
		conds := make([]model.Expr, len(combinator.branches))
		for i, b := range combinator.branches {
			if !requiredOnly(b) {
				return &jschema.UnsupportedKeywordError{Path: f.loc + "/" + combinator.keyword + "/" + strconv.Itoa(i), Keyword: combinator.keyword}
			}
			conds[i] = requiredTogether(b.Required)
		}
		expr := model.Or(conds...)
		if combinator.keyword == groupOneOf {
			expr = exactlyOne(conds)
		}
		c.Constraints = append(c.Constraints, model.Constraint{Name: cn.take(combinator.keyword), Expr: expr})
	}

	deps := make(map[string][]string)
	for k, v := range f.schema.DependencyStrings {
		deps[k] = v
	}
	for k, v := range f.schema.DependentRequired {
		deps[k] = append(deps[k], v...)
	}
	for _, key := range jschema.SortedKeys(deps) {
		c.Constraints = append(c.Constraints, model.Constraint{
			Name: cn.take(SanitizeIdentifier(key) + "_" + groupRequired),
			Expr: dependentRequired(key, deps[key]),
		})
	}
	return nil
}

// requiredOnly reports whether a combinator branch lists required names and
// nothing else.
func requiredOnly(s *jsonschema.Schema) bool {
	rest := *s
	rest.Required = nil
	rest.Title = ""
	rest.Description = ""
	return len(s.Required) > 0 && jschema.IsEmpty(&rest)
}

func (g *generator) buildEnum(p pending) {
	s := p.schema
	e := &model.Enum{Path: p.path}
	g.annotate(&e.Annotations, s)
	if enumNullable(s) {
		g.stereotype(&e.Annotations, model.StereotypeNullable)
	}

	members := newNamer()
	seen := make(map[string]bool)
	for _, raw := range s.Enum {
		lit, ok := raw.(string)
		if !ok || seen[lit] {
			continue
		}
		seen[lit] = true
		v := &model.EnumValue{Name: members.take(SanitizeIdentifier(lit))}
		if v.Name != lit {
			g.tag(&v.Annotations, model.TagName, lit)
		}
		e.Values = append(e.Values, v)
	}

	if def, ok := decodeJSON(s.Default).(string); ok {
		for _, v := range e.Values {
			if v.Literal() == def {
				e.Default = v.Name
			}
		}
	}
	g.m.Enums = append(g.m.Enums, e)
}

func (g *generator) resolveDefault(d pendingDefault) {
	v := decodeJSON(d.raw)
	if e := g.m.Enum(d.prop.Type); e != nil {
		if lit, ok := v.(string); ok {
			for _, member := range e.Values {
				if member.Literal() == lit {
					d.prop.Default = model.EnumValueRef{Enum: e.Path, Value: member.Name}
					return
				}
			}
		}
	} else if model.IsPrimitive(d.prop.Type) {
		if lit, ok := literal(v, d.prop.Type == model.Integer); ok {
			d.prop.Default = lit
			return
		}
	}
	g.tag(&d.prop.Annotations, model.TagDefault, compactJSON(d.raw))
}
