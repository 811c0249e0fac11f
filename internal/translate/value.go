// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"strconv"

	"github.com/dacolabs/pureschema/internal/jschema"
	"github.com/dacolabs/pureschema/internal/model"
	"github.com/google/jsonschema-go/jsonschema"
)

// valueSpec describes what a schema allows for one value: its model type
// and the checks the type alone does not express.
type valueSpec struct {
	typ      string
	nullable bool
	format   string // advisory format kept as a tag
	groups   []group
}

// value analyzes a schema describing a single (non-array) value.
// Inline objects and string enumerations are declared as elements named
// after hint.
func (g *generator) value(s *jsonschema.Schema, loc, hint string) (valueSpec, error) {
	switch {
	case s.Ref != "":
		return g.refValue(s, loc)
	case isStringEnum(s):
		return valueSpec{typ: g.declare(s, loc, hint, kindEnum), nullable: enumNullable(s)}, nil
	case g.isObject(s, make(map[*jsonschema.Schema]bool)):
		return valueSpec{typ: g.declare(s, loc, hint, kindClass), nullable: jschema.HasType(s, "null")}, nil
	case jschema.HasType(s, "array"):
		return valueSpec{}, &jschema.UnsupportedKeywordError{Path: loc, Keyword: "items"}
	}
	return g.primitive(s, loc, hint)
}

func (g *generator) refValue(s *jsonschema.Schema, loc string) (valueSpec, error) {
	def := g.doc.Resolve(s)
	if def == nil {
		return valueSpec{}, &jschema.UnresolvedReferenceError{Path: loc, Ref: s.Ref}
	}
	target := def.Schema
	switch g.kindOf(target) {
	case kindClass:
		return valueSpec{typ: g.declare(target, def.Location(), def.Name, kindClass), nullable: jschema.HasType(target, "null")}, nil
	case kindEnum:
		return valueSpec{typ: g.declare(target, def.Location(), def.Name, kindEnum), nullable: enumNullable(target)}, nil
	}

	if g.resolving[def] {
		return valueSpec{}, &jschema.MalformedSchemaError{Path: loc, Reason: "circular reference to " + def.Location()}
	}
	g.resolving[def] = true
	defer delete(g.resolving, def)

	v, err := g.value(target, def.Location(), def.Name)
	if err != nil {
		return valueSpec{}, err
	}
	if len(v.groups) == 0 || target.Ref != "" {
		return v, nil
	}
	g.uses[def]++
	if g.sites[def] > 1 {
		fn := g.function(def, v)
		v.groups = []group{{name: groupRef, pred: func(x model.Expr) model.Expr {
			return model.Call{Func: fn.Path, Args: []model.Expr{x}}
		}}}
	}
	return v, nil
}

// function returns the shared predicate for a definition, creating it on
// first use.
func (g *generator) function(def *jschema.Definition, v valueSpec) *model.Function {
	if fn, ok := g.funcs[def]; ok {
		return fn
	}
	base := ToPascalCase(def.Name)
	if base == "" {
		base = "Value"
	}
	fn := &model.Function{
		Path:               model.QualifiedName(g.pkg, g.names.take(base+"_validate")),
		Params:             []model.Param{{Name: "value", Type: v.typ, Multiplicity: model.One}},
		ReturnType:         model.Boolean,
		ReturnMultiplicity: model.One,
		Body:               conjunction(v.groups)(model.Var{Name: "value"}),
	}
	if def.Schema.Description != "" {
		fn.Tags.Add(model.TagRef{Profile: model.DocProfile, Tag: model.TagDoc}, def.Schema.Description)
	}
	g.funcs[def] = fn
	g.m.Functions = append(g.m.Functions, fn)
	return fn
}

func (g *generator) primitive(s *jsonschema.Schema, loc, hint string) (valueSpec, error) {
	v := valueSpec{nullable: jschema.HasType(s, "null")}

	var mapped []string
	for _, t := range jschema.TypeNames(s) {
		if t == "null" {
			continue
		}
		typ, known := PrimitiveType(t, s.Format)
		if !known && t == "string" {
			v.format = s.Format
		}
		mapped = append(mapped, typ)
	}
	if len(mapped) > 0 {
		v.typ = CommonSupertype(mapped...)
		if v.typ == model.Any && len(mapped) > 1 {
			alts := make([]pred, len(mapped))
			for i, t := range mapped {
				alts[i] = instanceOf(t)
			}
			if grp := anyOfGroup(alts); grp != nil {
				grp.name = groupType
				v.groups = append(v.groups, *grp)
			}
		}
	} else if s.Format != "" {
		v.format = s.Format
	}

	// Literal-only schemas take their type from the literals.
	if v.typ == "" {
		var litTypes []string
		for _, e := range s.Enum {
			if e != nil {
				litTypes = append(litTypes, literalType(e))
			}
		}
		if s.Const != nil && *s.Const != nil {
			litTypes = append(litTypes, literalType(*s.Const))
		}
		if len(litTypes) > 0 {
			v.typ = CommonSupertype(litTypes...)
		}
	}

	integer := v.typ == model.Integer
	if grp := stringGroup(s); grp != nil {
		if v.typ == "" {
			v.typ = model.String
		}
		if v.typ == model.Any {
			grp.pred = guarded(model.String, grp.pred)
		}
		v.groups = append(v.groups, *grp)
	}
	if grp := rangeGroup(s, integer); grp != nil {
		if v.typ == "" {
			v.typ = model.Number
		}
		if v.typ == model.Any {
			grp.pred = guarded(model.Number, grp.pred)
		}
		v.groups = append(v.groups, *grp)
	}

	if len(s.Enum) > 0 {
		var lits []model.Expr
		for _, e := range s.Enum {
			if e == nil {
				v.nullable = true
				continue
			}
			lit, ok := literal(e, integer)
			if !ok {
				return valueSpec{}, &jschema.UnsupportedKeywordError{Path: loc, Keyword: "enum"}
			}
			lits = append(lits, lit)
		}
		v.groups = append(v.groups, *membershipGroup(lits))
	}
	if s.Const != nil {
		if *s.Const == nil {
			v.nullable = true
		} else {
			lit, ok := literal(*s.Const, integer)
			if !ok {
				return valueSpec{}, &jschema.UnsupportedKeywordError{Path: loc, Keyword: "const"}
			}
			v.groups = append(v.groups, *constGroup(lit))
		}
	}

	for i, part := range s.AllOf {
		pv, err := g.value(inherit(part, s), loc+"/allOf/"+strconv.Itoa(i), hint)
		if err != nil {
			return valueSpec{}, err
		}
		if v.typ == "" || v.typ == model.Any {
			v.typ = pv.typ
		}
		if v.format == "" {
			v.format = pv.format
		}
		v.groups = append(v.groups, pv.groups...)
	}

	for _, combinator := range []struct {
		keyword  string
		branches []*jsonschema.Schema
	}{
		{groupAnyOf, s.AnyOf},
		{groupOneOf, s.OneOf},
	} {
		if len(combinator.branches) == 0 {
			continue
		}
		grp, typ, nullable, err := g.union(s, combinator.keyword, combinator.branches, loc, hint)
		if err != nil {
			return valueSpec{}, err
		}
		if v.typ == "" || v.typ == model.Any {
			v.typ = typ
		}
		v.nullable = v.nullable || nullable
		if grp != nil {
			v.groups = append(v.groups, *grp)
		}
	}

	if v.typ == "" {
		v.typ = model.Any
	}
	v.groups = mergeGroups(v.groups)
	return v, nil
}

// union compiles anyOf/oneOf branches in value position. Each branch holds
// when the value has the branch type and passes the branch checks; the type
// test is left out when it adds nothing over the union's type.
func (g *generator) union(parent *jsonschema.Schema, keyword string, branches []*jsonschema.Schema, loc, hint string) (*group, string, bool, error) {
	type branch struct {
		typ  string
		pred pred
	}
	var (
		parts    []branch
		types    []string
		nullable bool
	)
	for i, b := range branches {
		if isNullOnly(b) {
			nullable = true
			continue
		}
		bv, err := g.value(inherit(b, parent), loc+"/"+keyword+"/"+strconv.Itoa(i), hint+strconv.Itoa(i+1))
		if err != nil {
			return nil, "", false, err
		}
		nullable = nullable || bv.nullable
		parts = append(parts, branch{typ: bv.typ, pred: conjunction(bv.groups)})
		types = append(types, bv.typ)
	}

	super := CommonSupertype(types...)
	if own := jschema.TypeNames(parent); len(own) == 1 && own[0] != "null" {
		super, _ = PrimitiveType(own[0], parent.Format)
	}

	preds := make([]pred, len(parts))
	for i, part := range parts {
		p := part.pred
		if part.typ != super {
			typeTest, checks := instanceOf(part.typ), p
			p = func(v model.Expr) model.Expr {
				if checks == nil {
					return typeTest(v)
				}
				return model.And(typeTest(v), checks(v))
			}
		}
		preds[i] = p
	}

	if keyword == groupOneOf {
		return oneOfGroup(preds), super, nullable, nil
	}
	return anyOfGroup(preds), super, nullable, nil
}

// inherit gives an untyped branch the type of the schema around it, so
// {"type": "string", "anyOf": [{"pattern": ...}]} checks strings.
func inherit(branch, parent *jsonschema.Schema) *jsonschema.Schema {
	if branch.Ref != "" || len(jschema.TypeNames(branch)) > 0 || len(jschema.TypeNames(parent)) == 0 {
		return branch
	}
	if len(branch.Enum) > 0 || branch.Const != nil || len(branch.Properties) > 0 || len(branch.AllOf) > 0 {
		return branch
	}
	typed := *branch
	typed.Type, typed.Types = parent.Type, parent.Types
	if typed.Format == "" {
		typed.Format = parent.Format
	}
	return &typed
}

func literalType(v any) string {
	switch x := v.(type) {
	case string:
		return model.String
	case bool:
		return model.Boolean
	case float64:
		if x == float64(int64(x)) {
			return model.Integer
		}
		return model.Float
	case int, int64:
		return model.Integer
	}
	return model.Any
}
