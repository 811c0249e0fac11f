// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package model

import (
	"fmt"
	"math"
	"regexp"
	"time"
	"unicode/utf8"
)

// Scope binds variable names to collections.
type Scope map[string][]any

const maxCallDepth = 64

var strictDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Eval evaluates e against decoded JSON values. Every result is a
// collection: an absent value is empty, a scalar is a one-element slice.
// Numbers are float64.
func (m *Model) Eval(e Expr, scope Scope) ([]any, error) {
	ev := &evaluator{model: m, patterns: make(map[string]*regexp.Regexp)}
	return ev.eval(e, scope)
}

type evaluator struct {
	model    *Model
	patterns map[string]*regexp.Regexp
	depth    int
}

func (ev *evaluator) eval(e Expr, scope Scope) ([]any, error) {
	switch x := e.(type) {
	case Var:
		v, ok := scope[x.Name]
		if !ok {
			return nil, fmt.Errorf("unknown variable $%s", x.Name)
		}
		return v, nil
	case Prop:
		recv, err := ev.eval(x.Recv, scope)
		if err != nil {
			return nil, err
		}
		var out []any
		for _, r := range recv {
			obj, ok := r.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("property %s accessed on non-object %T", x.Name, r)
			}
			out = append(out, Values(obj[x.Name])...)
		}
		return out, nil
	case Arrow:
		return ev.arrow(x, scope)
	case Call:
		return ev.call(x, scope)
	case Binary:
		return ev.binary(x, scope)
	case Not:
		b, err := ev.boolean(x.X, scope)
		if err != nil {
			return nil, err
		}
		return []any{!b}, nil
	case Literal:
		return []any{normalize(x.Value)}, nil
	case Collection:
		var out []any
		for _, item := range x.Items {
			v, err := ev.eval(item, scope)
			if err != nil {
				return nil, err
			}
			out = append(out, v...)
		}
		return out, nil
	case EnumValueRef:
		enum := ev.model.Enum(x.Enum)
		if enum == nil {
			return nil, fmt.Errorf("unknown enumeration %s", x.Enum)
		}
		v := enum.Value(x.Value)
		if v == nil {
			return nil, fmt.Errorf("unknown member %s", x)
		}
		return []any{v.Literal()}, nil
	case nil:
		return nil, fmt.Errorf("nil expression")
	default:
		return nil, fmt.Errorf("cannot evaluate %s", e)
	}
}

// Values turns a decoded JSON value into a collection.
func Values(v any) []any {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, 0, len(x))
		for _, item := range x {
			if item != nil {
				out = append(out, normalize(item))
			}
		}
		return out
	default:
		return []any{normalize(x)}
	}
}

func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

func (ev *evaluator) one(e Expr, scope Scope) (any, error) {
	v, err := ev.eval(e, scope)
	if err != nil {
		return nil, err
	}
	if len(v) != 1 {
		return nil, fmt.Errorf("%s: expected one value, got %d", e, len(v))
	}
	return v[0], nil
}

func (ev *evaluator) boolean(e Expr, scope Scope) (bool, error) {
	v, err := ev.one(e, scope)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s: expected Boolean, got %T", e, v)
	}
	return b, nil
}

func (ev *evaluator) arrow(x Arrow, scope Scope) ([]any, error) {
	recv, err := ev.eval(x.Recv, scope)
	if err != nil {
		return nil, err
	}
	single := func() (any, error) {
		if len(recv) != 1 {
			return nil, fmt.Errorf("%s: expected one value, got %d", x.Func, len(recv))
		}
		return recv[0], nil
	}
	arity := func(n int) error {
		if len(x.Args) != n {
			return fmt.Errorf("%s: expected %d argument(s), got %d", x.Func, n, len(x.Args))
		}
		return nil
	}

	switch x.Func {
	case "isEmpty":
		return []any{len(recv) == 0}, nil
	case "isNotEmpty":
		return []any{len(recv) != 0}, nil
	case "size":
		return []any{float64(len(recv))}, nil
	case "toOne":
		v, err := single()
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	case "length":
		v, err := single()
		if err != nil {
			return nil, err
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("length: expected String, got %T", v)
		}
		return []any{float64(utf8.RuneCountInString(s))}, nil
	case "matches":
		if err := arity(1); err != nil {
			return nil, err
		}
		v, err := single()
		if err != nil {
			return nil, err
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("matches: expected String, got %T", v)
		}
		p, err := ev.one(x.Args[0], scope)
		if err != nil {
			return nil, err
		}
		pattern, ok := p.(string)
		if !ok {
			return nil, fmt.Errorf("matches: pattern must be a String")
		}
		re, err := ev.compile(pattern)
		if err != nil {
			return nil, err
		}
		return []any{re.MatchString(s)}, nil
	case "rem":
		if err := arity(1); err != nil {
			return nil, err
		}
		v, err := single()
		if err != nil {
			return nil, err
		}
		d, err := ev.one(x.Args[0], scope)
		if err != nil {
			return nil, err
		}
		a, ok1 := v.(float64)
		b, ok2 := d.(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("rem: expected numbers")
		}
		if b == 0 {
			return nil, fmt.Errorf("rem: division by zero")
		}
		r := math.Mod(a, b)
		// tolerate binary rounding for decimal divisors such as 0.01
		if math.Abs(r) < 1e-9 || math.Abs(math.Abs(r)-math.Abs(b)) < 1e-9 {
			r = 0
		}
		return []any{r}, nil
	case "in":
		if err := arity(1); err != nil {
			return nil, err
		}
		v, err := single()
		if err != nil {
			return nil, err
		}
		set, err := ev.eval(x.Args[0], scope)
		if err != nil {
			return nil, err
		}
		for _, candidate := range set {
			if equal(v, candidate) {
				return []any{true}, nil
			}
		}
		return []any{false}, nil
	case "instanceOf":
		if err := arity(1); err != nil {
			return nil, err
		}
		v, err := single()
		if err != nil {
			return nil, err
		}
		t, ok := x.Args[0].(TypeRef)
		if !ok {
			return nil, fmt.Errorf("instanceOf: expected a type argument")
		}
		return []any{ev.model.IsInstance(v, t.Path)}, nil
	case "isDistinct":
		for i := range recv {
			for j := i + 1; j < len(recv); j++ {
				if equal(recv[i], recv[j]) {
					return []any{false}, nil
				}
			}
		}
		return []any{true}, nil
	case "forAll", "filter":
		if err := arity(1); err != nil {
			return nil, err
		}
		fn, ok := x.Args[0].(Lambda)
		if !ok {
			return nil, fmt.Errorf("%s: expected a lambda", x.Func)
		}
		var kept []any
		for _, item := range recv {
			inner := make(Scope, len(scope)+1)
			for k, v := range scope {
				inner[k] = v
			}
			inner[fn.Param] = []any{item}
			ok, err := ev.boolean(fn.Body, inner)
			if err != nil {
				return nil, err
			}
			if x.Func == "forAll" && !ok {
				return []any{false}, nil
			}
			if ok {
				kept = append(kept, item)
			}
		}
		if x.Func == "forAll" {
			return []any{true}, nil
		}
		return kept, nil
	default:
		return nil, fmt.Errorf("unsupported function %s", x.Func)
	}
}

func (ev *evaluator) call(x Call, scope Scope) ([]any, error) {
	fn := ev.model.Function(x.Func)
	if fn == nil {
		return nil, fmt.Errorf("unknown function %s", x.Func)
	}
	if len(fn.Params) != len(x.Args) {
		return nil, fmt.Errorf("%s: expected %d argument(s), got %d", x.Func, len(fn.Params), len(x.Args))
	}
	if ev.depth >= maxCallDepth {
		return nil, fmt.Errorf("%s: call depth exceeded", x.Func)
	}
	inner := make(Scope, len(fn.Params))
	for i, p := range fn.Params {
		v, err := ev.eval(x.Args[i], scope)
		if err != nil {
			return nil, err
		}
		if !p.Multiplicity.Admits(len(v)) {
			return nil, fmt.Errorf("%s: argument %s expects %s, got %d value(s)", x.Func, p.Name, p.Multiplicity, len(v))
		}
		inner[p.Name] = v
	}
	ev.depth++
	defer func() { ev.depth-- }()
	return ev.eval(fn.Body, inner)
}

func (ev *evaluator) binary(x Binary, scope Scope) ([]any, error) {
	switch x.Op {
	case "&&", "||":
		left, err := ev.boolean(x.Left, scope)
		if err != nil {
			return nil, err
		}
		if (x.Op == "&&" && !left) || (x.Op == "||" && left) {
			return []any{left}, nil
		}
		right, err := ev.boolean(x.Right, scope)
		if err != nil {
			return nil, err
		}
		return []any{right}, nil
	}

	left, err := ev.one(x.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := ev.one(x.Right, scope)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case "==":
		return []any{equal(left, right)}, nil
	case "!=":
		return []any{!equal(left, right)}, nil
	}
	c, err := compare(left, right)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", x, err)
	}
	switch x.Op {
	case "<":
		return []any{c < 0}, nil
	case "<=":
		return []any{c <= 0}, nil
	case ">":
		return []any{c > 0}, nil
	case ">=":
		return []any{c >= 0}, nil
	default:
		return nil, fmt.Errorf("unsupported operator %s", x.Op)
	}
}

func (ev *evaluator) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := ev.patterns[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("matches: %w", err)
	}
	ev.patterns[pattern] = re
	return re, nil
}

func equal(a, b any) bool {
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	default:
		return false
	}
}

func compare(a, b any) (int, error) {
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		if !ok {
			break
		}
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	case string:
		y, ok := b.(string)
		if !ok {
			break
		}
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("cannot compare %T with %T", a, b)
}

// IsInstance reports whether a decoded JSON value conforms to type t at the
// top level. Class instances are only checked for being objects.
func (m *Model) IsInstance(v any, t string) bool {
	switch t {
	case Any:
		return true
	case String:
		_, ok := v.(string)
		return ok
	case Boolean:
		_, ok := v.(bool)
		return ok
	case Integer:
		f, ok := v.(float64)
		return ok && f == math.Trunc(f)
	case Float, Decimal, Number:
		_, ok := v.(float64)
		return ok
	case StrictDate:
		s, ok := v.(string)
		if !ok || !strictDatePattern.MatchString(s) {
			return false
		}
		_, err := time.Parse(time.DateOnly, s)
		return err == nil
	case DateTime:
		s, ok := v.(string)
		if !ok {
			return false
		}
		_, err := time.Parse(time.RFC3339Nano, s)
		return err == nil
	case Date:
		return m.IsInstance(v, StrictDate) || m.IsInstance(v, DateTime)
	}
	if e := m.Enum(t); e != nil {
		s, ok := v.(string)
		if !ok {
			return false
		}
		for _, lit := range e.Literals() {
			if lit == s {
				return true
			}
		}
		return false
	}
	if m.Class(t) != nil {
		_, ok := v.(map[string]any)
		return ok
	}
	return false
}
