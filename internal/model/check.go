// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package model

import (
	"fmt"
	"strconv"
)

// Violation describes one way an instance fails to conform to a class.
type Violation struct {
	Path    string // instance path, e.g. "$.addresses[1].zip"
	Message string
}

func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// Check validates a decoded JSON instance against the class at path:
// property multiplicities and types, nested class instances, and every
// constraint of the class and its superclasses.
// The error is non-nil only when the class does not exist.
func (m *Model) Check(classPath string, instance any) ([]Violation, error) {
	c := m.Class(classPath)
	if c == nil {
		return nil, fmt.Errorf("unknown class %q", classPath)
	}
	var out []Violation
	m.checkObject("$", c, instance, &out)
	return out, nil
}

func (m *Model) checkObject(path string, c *Class, v any, out *[]Violation) {
	obj, ok := v.(map[string]any)
	if !ok {
		*out = append(*out, Violation{Path: path, Message: fmt.Sprintf("expected %s object, got %s", c.Name(), jsonKind(v))})
		return
	}

	for _, p := range m.AllProperties(c) {
		propPath := path + "." + p.Name
		values := Values(obj[p.Name])
		if !p.Multiplicity.Admits(len(values)) {
			*out = append(*out, Violation{
				Path:    propPath,
				Message: fmt.Sprintf("expected %s value(s), got %d", p.Multiplicity, len(values)),
			})
			continue
		}
		for i, item := range values {
			itemPath := propPath
			if _, isList := obj[p.Name].([]any); isList {
				itemPath += "[" + strconv.Itoa(i) + "]"
			}
			m.checkValue(itemPath, p.Type, item, out)
		}
	}

	for _, constraint := range m.AllConstraints(c) {
		result, err := m.Eval(constraint.Expr, Scope{"this": {obj}})
		switch {
		case err != nil:
			*out = append(*out, Violation{Path: path, Message: fmt.Sprintf("constraint %s: %v", constraint.Name, err)})
		case len(result) != 1 || result[0] != true:
			*out = append(*out, Violation{Path: path, Message: fmt.Sprintf("constraint %s violated", constraint.Name)})
		}
	}
}

func (m *Model) checkValue(path, typ string, v any, out *[]Violation) {
	if c := m.Class(typ); c != nil {
		m.checkObject(path, c, v, out)
		return
	}
	if !m.IsType(typ) {
		*out = append(*out, Violation{Path: path, Message: fmt.Sprintf("unknown type %s", typ)})
		return
	}
	if !m.IsInstance(v, typ) {
		*out = append(*out, Violation{Path: path, Message: fmt.Sprintf("expected %s, got %s", ElementName(typ), jsonKind(v))})
	}
}

func jsonKind(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
