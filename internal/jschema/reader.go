// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// Definition is a named schema that becomes a top-level model element:
// a document root, an entry under definitions/$defs, or any other node
// that a $ref points at.
type Definition struct {
	Name    string
	File    string
	Pointer string
	Schema  *jsonschema.Schema
	Root    bool
}

// Location returns the definition's schema path.
func (d *Definition) Location() string {
	return Location(d.File, d.Pointer)
}

// Document is a validated set of schemas with every $ref resolved.
type Document struct {
	defs     []*Definition
	bySchema map[*jsonschema.Schema]*Definition
	refs     map[*jsonschema.Schema]*Definition
	locs     map[*jsonschema.Schema]string
	files    map[string]*jsonschema.Schema
}

// Roots returns the definitions for the files the document was read from,
// in the order they were given.
func (d *Document) Roots() []*Definition {
	var roots []*Definition
	for _, def := range d.defs {
		if def.Root {
			roots = append(roots, def)
		}
	}
	return roots
}

// Definitions returns all definitions in discovery order: roots first, then
// the definitions of root files, then anything reached through $ref.
func (d *Document) Definitions() []*Definition {
	return d.defs
}

// Resolve returns the definition a $ref node points at, or nil when s is not
// a ref node of this document.
func (d *Document) Resolve(s *jsonschema.Schema) *Definition {
	return d.refs[s]
}

// Refs iterates over every $ref node of the document and its target.
func (d *Document) Refs() iter.Seq2[*jsonschema.Schema, *Definition] {
	return func(yield func(*jsonschema.Schema, *Definition) bool) {
		for ref, def := range d.refs {
			if !yield(ref, def) {
				return
			}
		}
	}
}

// DefinitionOf returns the definition whose schema is s, or nil.
func (d *Document) DefinitionOf(s *jsonschema.Schema) *Definition {
	return d.bySchema[s]
}

// Location returns the schema path of any node in the document.
func (d *Document) Location(s *jsonschema.Schema) string {
	return d.locs[s]
}

// File returns the parsed root schema of a loaded file.
func (d *Document) File(name string) *jsonschema.Schema {
	return d.files[name]
}

// Reader reads schemas into Documents. Cross-file references are loaded from
// the bundle.
type Reader struct {
	loader *Loader
}

// NewReader creates a Reader. bundle may be nil, in which case only
// same-document references resolve.
func NewReader(bundle fs.FS) *Reader {
	r := &Reader{}
	if bundle != nil {
		r.loader = NewLoader(bundle)
	}
	return r
}

// Read reads a single schema given as bytes. name is used for error paths,
// format detection and resolving relative file references.
func (r *Reader) Read(name string, data []byte) (*Document, error) {
	b := r.newBuilder()
	if err := b.addRoot(name, data); err != nil {
		return nil, err
	}
	return b.finish()
}

// ReadFile reads one schema file from the bundle.
func (r *Reader) ReadFile(p string) (*Document, error) {
	return r.ReadFiles(p)
}

// ReadFiles reads several schema files from the bundle into one Document.
// Definitions shared between them resolve to the same Definition.
func (r *Reader) ReadFiles(paths ...string) (*Document, error) {
	if r.loader == nil {
		return nil, errors.New("reader has no schema bundle")
	}
	b := r.newBuilder()
	for _, p := range paths {
		p = path.Clean(p)
		if _, ok := b.doc.files[p]; ok {
			continue
		}
		data, err := r.loader.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", p, err)
		}
		if err := b.addRoot(p, data); err != nil {
			return nil, err
		}
	}
	return b.finish()
}

type builder struct {
	loader  *Loader
	doc     *Document
	pending []string
}

func (r *Reader) newBuilder() *builder {
	return &builder{
		loader: r.loader,
		doc: &Document{
			bySchema: make(map[*jsonschema.Schema]*Definition),
			refs:     make(map[*jsonschema.Schema]*Definition),
			locs:     make(map[*jsonschema.Schema]string),
			files:    make(map[string]*jsonschema.Schema),
		},
	}
}

func (b *builder) parse(file string, data []byte) (*jsonschema.Schema, error) {
	s, err := Parse(data, FormatFromPath(file))
	if err != nil {
		return nil, &MalformedSchemaError{Path: Location(file, ""), Reason: "cannot decode schema", Err: err}
	}
	b.doc.files[file] = s
	b.pending = append(b.pending, file)
	return s, nil
}

func (b *builder) addRoot(file string, data []byte) error {
	s, err := b.parse(file, data)
	if err != nil {
		return err
	}
	b.define(file, "", s).Root = true
	for _, name := range SortedKeys(s.Definitions) {
		b.define(file, "/definitions/"+EscapePointer(name), s.Definitions[name])
	}
	for _, name := range SortedKeys(s.Defs) {
		b.define(file, "/$defs/"+EscapePointer(name), s.Defs[name])
	}
	return nil
}

func (b *builder) define(file, pointer string, s *jsonschema.Schema) *Definition {
	if def := b.doc.bySchema[s]; def != nil {
		return def
	}
	def := &Definition{Name: definitionName(file, pointer, s), File: file, Pointer: pointer, Schema: s}
	b.doc.defs = append(b.doc.defs, def)
	b.doc.bySchema[s] = def
	return def
}

// finish validates every loaded file and resolves its refs. Resolving may
// load further files, which are processed in turn.
func (b *builder) finish() (*Document, error) {
	for len(b.pending) > 0 {
		file := b.pending[0]
		b.pending = b.pending[1:]

		for pointer, s := range Walk(b.doc.files[file]) {
			loc := Location(file, pointer)
			b.doc.locs[s] = loc
			if err := ValidateNode(loc, s); err != nil {
				return nil, err
			}
			if s.Ref == "" {
				continue
			}
			def, err := b.resolve(file, loc, s.Ref)
			if err != nil {
				return nil, err
			}
			b.doc.refs[s] = def
		}
	}
	return b.doc, nil
}

func (b *builder) resolve(file, loc, ref string) (*Definition, error) {
	target, fragment, _ := strings.Cut(ref, "#")
	targetFile := file
	if target != "" {
		targetFile = path.Join(path.Dir(file), target)
		if _, ok := b.doc.files[targetFile]; !ok {
			if b.loader == nil {
				return nil, &UnresolvedReferenceError{Path: loc, Ref: ref, Err: errors.New("no schema bundle")}
			}
			data, err := b.loader.ReadFile(targetFile)
			if err != nil {
				return nil, &UnresolvedReferenceError{Path: loc, Ref: ref, Err: err}
			}
			if _, err := b.parse(targetFile, data); err != nil {
				return nil, err
			}
		}
	}

	fragment, err := url.PathUnescape(fragment)
	if err != nil {
		return nil, &UnresolvedReferenceError{Path: loc, Ref: ref, Err: err}
	}
	fragment = strings.TrimSuffix(fragment, "/")
	node := Lookup(b.doc.files[targetFile], fragment)
	if node == nil {
		return nil, &UnresolvedReferenceError{Path: loc, Ref: ref}
	}
	return b.define(targetFile, fragment, node), nil
}

// definitionName picks a name for a definition: the definitions key, the
// title of a file root, the file stem, or the last pointer token.
func definitionName(file, pointer string, s *jsonschema.Schema) string {
	if pointer == "" {
		if s.Title != "" {
			return s.Title
		}
		stem, _, _ := strings.Cut(path.Base(file), ".")
		return stem
	}
	tokens := splitPointer(pointer[1:])
	last := tokens[len(tokens)-1]
	if _, err := strconv.Atoi(last); err == nil && len(tokens) > 1 {
		return tokens[len(tokens)-2] + "_" + last
	}
	if last == "items" && len(tokens) > 1 {
		return tokens[len(tokens)-2] + "_item"
	}
	return last
}
