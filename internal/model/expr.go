// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package model

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Expr is a node of a Pure expression. String renders Pure syntax.
type Expr interface {
	String() string
	expr()
}

// Var is a variable reference: $name.
type Var struct{ Name string }

// Prop is a property access: recv.name.
type Prop struct {
	Recv Expr
	Name string
}

// Arrow is a function applied with arrow syntax: recv->fn(args).
type Arrow struct {
	Recv Expr
	Func string
	Args []Expr
}

// Call is a function applied with prefix syntax: fn(args).
type Call struct {
	Func string
	Args []Expr
}

// Lambda is a single-parameter lambda: x|body.
type Lambda struct {
	Param string
	Body  Expr
}

// Binary is an infix operation.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

// Not negates a boolean expression.
type Not struct{ X Expr }

// Literal is a string, boolean, integer (int64) or float (float64) constant.
type Literal struct{ Value any }

// Collection is a literal list: [a, b].
type Collection struct{ Items []Expr }

// TypeRef names a type, as in ->instanceOf(String).
type TypeRef struct{ Path string }

// EnumValueRef names an enumeration member: pkg::Enum.VALUE.
type EnumValueRef struct {
	Enum  string
	Value string
}

// Raw is expression text that was not built by this package.
type Raw struct{ Text string }

func (Var) expr()          {}
func (Prop) expr()         {}
func (Arrow) expr()        {}
func (Call) expr()         {}
func (Lambda) expr()       {}
func (Binary) expr()       {}
func (Not) expr()          {}
func (Literal) expr()      {}
func (Collection) expr()   {}
func (TypeRef) expr()      {}
func (EnumValueRef) expr() {}
func (Raw) expr()          {}

func (v Var) String() string { return "$" + v.Name }

func (p Prop) String() string { return p.Recv.String() + "." + QuoteName(p.Name) }

func (a Arrow) String() string {
	return a.Recv.String() + "->" + a.Func + "(" + joinExprs(a.Args) + ")"
}

func (c Call) String() string { return c.Func + "(" + joinExprs(c.Args) + ")" }

func (l Lambda) String() string { return l.Param + "|" + l.Body.String() }

func (b Binary) String() string {
	return b.operand(b.Left) + " " + b.Op + " " + b.operand(b.Right)
}

// operand parenthesizes nested infix operations unless they repeat a boolean
// operator, so a || b || c stays flat.
func (b Binary) operand(e Expr) string {
	child, ok := e.(Binary)
	if !ok {
		return e.String()
	}
	if child.Op == b.Op && (b.Op == "&&" || b.Op == "||") {
		return child.String()
	}
	return "(" + child.String() + ")"
}

func (n Not) String() string {
	if _, ok := n.X.(Binary); ok {
		return "!(" + n.X.String() + ")"
	}
	return "!" + n.X.String()
}

func (l Literal) String() string {
	switch v := l.Value.(type) {
	case string:
		return QuoteString(v)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return formatFloat(v)
	default:
		return "[]"
	}
}

func (c Collection) String() string { return "[" + joinExprs(c.Items) + "]" }

func (t TypeRef) String() string { return t.Path }

func (e EnumValueRef) String() string { return e.Enum + "." + e.Value }

func (r Raw) String() string { return r.Text }

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// QuoteString renders a Pure string literal.
func QuoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

// IsIdentifier reports whether s is a plain Pure identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r < unicode.MaxASCII && unicode.IsLetter(r)) {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

// QuoteName renders a property name, quoting it when it is not an identifier.
func QuoteName(name string) string {
	if IsIdentifier(name) {
		return name
	}
	return QuoteString(name)
}

// This returns $this.name.
func This(name string) Expr { return Prop{Recv: Var{Name: "this"}, Name: name} }

// Lit wraps a constant.
func Lit(v any) Expr { return Literal{Value: v} }

// NumberLit returns an integer literal when integer is set and f is integral,
// a float literal otherwise.
func NumberLit(f float64, integer bool) Expr {
	if integer && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return Literal{Value: int64(f)}
	}
	return Literal{Value: f}
}

// Cmp builds a comparison.
func Cmp(op string, left, right Expr) Expr { return Binary{Op: op, Left: left, Right: right} }

// And folds the non-nil operands with &&. It returns nil when none remain.
func And(exprs ...Expr) Expr { return fold("&&", exprs) }

// Or folds the non-nil operands with ||. It returns nil when none remain.
func Or(exprs ...Expr) Expr { return fold("||", exprs) }

func fold(op string, exprs []Expr) Expr {
	var out Expr
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if out == nil {
			out = e
			continue
		}
		out = Binary{Op: op, Left: out, Right: e}
	}
	return out
}

// ParseLiteral turns the rendering of a literal or enumeration member back
// into an expression. Anything else is kept as Raw.
func ParseLiteral(s string) Expr {
	s = strings.TrimSpace(s)
	switch {
	case s == "true" || s == "false":
		return Literal{Value: s == "true"}
	case len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'':
		return Literal{Value: unquote(s[1 : len(s)-1])}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Literal{Value: n}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Literal{Value: f}
	}
	if i := strings.LastIndex(s, "."); i > 0 && IsIdentifier(s[i+1:]) && !strings.ContainsAny(s, " ()$") {
		return EnumValueRef{Enum: s[:i], Value: s[i+1:]}
	}
	return Raw{Text: s}
}

func unquote(s string) string {
	var sb strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			switch r {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
