// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import "fmt"

// MalformedSchemaError reports structurally invalid schema input.
type MalformedSchemaError struct {
	Path   string // schema location, e.g. "person.json#/properties/tags"
	Reason string
	Err    error
}

func (e *MalformedSchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed schema at %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed schema at %s: %s", e.Path, e.Reason)
}

func (e *MalformedSchemaError) Unwrap() error { return e.Err }

// UnresolvedReferenceError reports a $ref whose target does not exist.
type UnresolvedReferenceError struct {
	Path string
	Ref  string
	Err  error
}

func (e *UnresolvedReferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unresolved reference %q at %s: %v", e.Ref, e.Path, e.Err)
	}
	return fmt.Sprintf("unresolved reference %q at %s", e.Ref, e.Path)
}

func (e *UnresolvedReferenceError) Unwrap() error { return e.Err }

// UnsupportedKeywordError reports a validation keyword that has no model
// translation. Dropping it would yield a model that accepts data the schema
// rejects.
type UnsupportedKeywordError struct {
	Path    string
	Keyword string
}

func (e *UnsupportedKeywordError) Error() string {
	return fmt.Sprintf("unsupported keyword %q at %s", e.Keyword, e.Path)
}

// Location joins a file name and a JSON pointer fragment.
func Location(file, pointer string) string {
	return file + "#" + pointer
}
