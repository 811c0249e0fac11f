// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"github.com/dacolabs/pureschema/internal/model"
	"github.com/google/jsonschema-go/jsonschema"
)

// pred builds a boolean expression over one value.
type pred func(v model.Expr) model.Expr

// group is one named family of checks on a value, e.g. "string" for
// minLength, maxLength and pattern together.
type group struct {
	name string
	pred pred
}

// Group names. Constraint names are "<property>_<group>".
const (
	groupString   = "string"
	groupRange    = "range"
	groupEnum     = "enum"
	groupConst    = "const"
	groupType     = "type"
	groupAnyOf    = "anyOf"
	groupOneOf    = "oneOf"
	groupUnique   = "unique"
	groupSize     = "size"
	groupRef      = "ref"
	groupRequired = "dependentRequired"
)

func arrow(recv model.Expr, fn string, args ...model.Expr) model.Expr {
	return model.Arrow{Recv: recv, Func: fn, Args: args}
}

// PadPattern converts a JSON Schema pattern, which matches anywhere in the
// string, into a full-match pattern. Anchors inside the group keep their
// meaning, so ^ and $ still bind to the ends of the value.
func PadPattern(p string) string {
	return "(?s).*(?:" + p + ").*"
}

func stringGroup(s *jsonschema.Schema) *group {
	if s.MinLength == nil && s.MaxLength == nil && s.Pattern == "" {
		return nil
	}
	return &group{name: groupString, pred: func(v model.Expr) model.Expr {
		var parts []model.Expr
		if s.MinLength != nil {
			parts = append(parts, model.Cmp(">=", arrow(v, "length"), model.Lit(int64(*s.MinLength))))
		}
		if s.MaxLength != nil {
			parts = append(parts, model.Cmp("<=", arrow(v, "length"), model.Lit(int64(*s.MaxLength))))
		}
		if s.Pattern != "" {
			parts = append(parts, arrow(v, "matches", model.Lit(PadPattern(s.Pattern))))
		}
		return model.And(parts...)
	}}
}

func rangeGroup(s *jsonschema.Schema, integer bool) *group {
	if s.Minimum == nil && s.Maximum == nil && s.ExclusiveMinimum == nil && s.ExclusiveMaximum == nil && s.MultipleOf == nil {
		return nil
	}
	return &group{name: groupRange, pred: func(v model.Expr) model.Expr {
		bound := func(op string, f *float64) model.Expr {
			if f == nil {
				return nil
			}
			return model.Cmp(op, v, model.NumberLit(*f, integer))
		}
		var multiple model.Expr
		if s.MultipleOf != nil {
			multiple = model.Cmp("==", arrow(v, "rem", model.NumberLit(*s.MultipleOf, integer)), model.Lit(int64(0)))
		}
		return model.And(
			bound(">=", s.Minimum),
			bound(">", s.ExclusiveMinimum),
			bound("<=", s.Maximum),
			bound("<", s.ExclusiveMaximum),
			multiple,
		)
	}}
}

// literal converts a decoded JSON scalar into a literal expression.
// ok is false for null, objects and arrays.
func literal(v any, integer bool) (model.Expr, bool) {
	switch x := v.(type) {
	case string:
		return model.Lit(x), true
	case bool:
		return model.Lit(x), true
	case float64:
		return model.NumberLit(x, integer), true
	case int:
		return model.Lit(int64(x)), true
	case int64:
		return model.Lit(x), true
	}
	return nil, false
}

func membershipGroup(lits []model.Expr) *group {
	return &group{name: groupEnum, pred: func(v model.Expr) model.Expr {
		return arrow(v, "in", model.Collection{Items: lits})
	}}
}

func constGroup(lit model.Expr) *group {
	return &group{name: groupConst, pred: func(v model.Expr) model.Expr {
		return model.Cmp("==", v, lit)
	}}
}

func instanceOf(typ string) pred {
	return func(v model.Expr) model.Expr {
		return arrow(v, "instanceOf", model.TypeRef{Path: typ})
	}
}

// anyOfGroup holds when at least one branch holds. A nil branch always
// holds, which makes the whole group vacuous.
func anyOfGroup(branches []pred) *group {
	for _, b := range branches {
		if b == nil {
			return nil
		}
	}
	return &group{name: groupAnyOf, pred: func(v model.Expr) model.Expr {
		conds := make([]model.Expr, len(branches))
		for i, b := range branches {
			conds[i] = b(v)
		}
		return model.Or(conds...)
	}}
}

// oneOfGroup holds when exactly one branch holds.
func oneOfGroup(branches []pred) *group {
	return &group{name: groupOneOf, pred: func(v model.Expr) model.Expr {
		conds := make([]model.Expr, len(branches))
		for i, b := range branches {
			if b == nil {
				conds[i] = model.Lit(true)
				continue
			}
			conds[i] = b(v)
		}
		return exactlyOne(conds)
	}}
}

// exactlyOne renders [c1, c2, ...]->filter(x|$x)->size() == 1.
func exactlyOne(conds []model.Expr) model.Expr {
	kept := arrow(model.Collection{Items: conds}, "filter", model.Lambda{Param: "x", Body: model.Var{Name: "x"}})
	return model.Cmp("==", arrow(kept, "size"), model.Lit(int64(1)))
}

// guarded restricts p to values of type typ, so keywords that only apply to
// one JSON type do not reject values of another.
func guarded(typ string, p pred) pred {
	return func(v model.Expr) model.Expr {
		return model.Or(model.Not{X: instanceOf(typ)(v)}, p(v))
	}
}

// conjunction folds all groups into one predicate, or nil when there are none.
func conjunction(groups []group) pred {
	if len(groups) == 0 {
		return nil
	}
	return func(v model.Expr) model.Expr {
		parts := make([]model.Expr, len(groups))
		for i, g := range groups {
			parts[i] = g.pred(v)
		}
		return model.And(parts...)
	}
}

// mergeGroups combines groups of the same name with AND, keeping the order
// in which names first appear.
func mergeGroups(groups []group) []group {
	var out []group
	index := make(map[string]int)
	for _, g := range groups {
		i, ok := index[g.name]
		if !ok {
			index[g.name] = len(out)
			out = append(out, g)
			continue
		}
		first, second := out[i].pred, g.pred
		out[i].pred = func(v model.Expr) model.Expr { return model.And(first(v), second(v)) }
	}
	return out
}

// scalarConstraint applies g to a single-valued property. Optional values are
// vacuously valid when absent.
func scalarConstraint(name, prop string, optional bool, g group) model.Constraint {
	if !optional {
		return model.Constraint{Name: name, Expr: g.pred(model.This(prop))}
	}
	return model.Constraint{Name: name, Expr: model.Or(
		arrow(model.This(prop), "isEmpty"),
		g.pred(arrow(model.This(prop), "toOne")),
	)}
}

// itemsConstraint applies g to every value of a collection property.
func itemsConstraint(name, prop string, g group) model.Constraint {
	return model.Constraint{Name: name, Expr: arrow(model.This(prop), "forAll",
		model.Lambda{Param: "x", Body: g.pred(model.Var{Name: "x"})})}
}

func uniqueConstraint(name, prop string) model.Constraint {
	return model.Constraint{Name: name, Expr: arrow(model.This(prop), "isDistinct")}
}

func sizeConstraint(name, prop string, minItems int) model.Constraint {
	return model.Constraint{Name: name, Expr: model.Or(
		arrow(model.This(prop), "isEmpty"),
		model.Cmp(">=", arrow(model.This(prop), "size"), model.Lit(int64(minItems))),
	)}
}

// requiredTogether holds when every property in names has a value.
func requiredTogether(names []string) model.Expr {
	parts := make([]model.Expr, len(names))
	for i, n := range names {
		parts[i] = arrow(model.This(n), "isNotEmpty")
	}
	if len(parts) == 0 {
		return model.Lit(true)
	}
	return model.And(parts...)
}

// dependentRequired: when key has a value, so must each of deps.
func dependentRequired(key string, deps []string) model.Expr {
	return model.Or(arrow(model.This(key), "isEmpty"), requiredTogether(deps))
}
