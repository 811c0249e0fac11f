// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package model defines the Pure model graph: classes, enums, predicate
// functions and profiles, together with the expression tree used for
// constraints.
package model

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Primitive type names.
const (
	String     = "String"
	Integer    = "Integer"
	Float      = "Float"
	Decimal    = "Decimal"
	Number     = "Number"
	Boolean    = "Boolean"
	Date       = "Date"
	StrictDate = "StrictDate"
	DateTime   = "DateTime"
	Any        = "Any"
)

var primitives = []string{String, Integer, Float, Decimal, Number, Boolean, Date, StrictDate, DateTime, Any}

// IsPrimitive reports whether t names a Pure primitive type.
func IsPrimitive(t string) bool {
	return slices.Contains(primitives, t)
}

// Well-known profiles.
const (
	// DocProfile is the standard documentation profile.
	DocProfile = "meta::pure::profiles::doc"
	// SchemaProfileName is the simple name of the profile generated next to
	// the model to carry JSON Schema metadata.
	SchemaProfileName = "JSONSchemaProfile"
)

// Stereotypes and tags of the generated schema profile.
const (
	StereotypeNullable  = "nullable"
	StereotypeReadOnly  = "readOnly"
	StereotypeWriteOnly = "writeOnly"
	StereotypeDeprecate = "deprecated"

	TagDoc     = "doc"
	TagTitle   = "title"
	TagFormat  = "format"
	TagName    = "name"
	TagDefault = "default"
)

// QualifiedName joins a package and an element name.
func QualifiedName(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "::" + name
}

// ValidatePackage checks a package path such as "meta::demo::people".
func ValidatePackage(pkg string) error {
	if pkg == "" {
		return fmt.Errorf("package must not be empty")
	}
	for _, segment := range strings.Split(pkg, "::") {
		if !IsIdentifier(segment) {
			return fmt.Errorf("invalid package %q: segment %q is not an identifier", pkg, segment)
		}
	}
	return nil
}

// ElementName returns the last segment of a qualified path.
func ElementName(path string) string {
	if i := strings.LastIndex(path, "::"); i >= 0 {
		return path[i+2:]
	}
	return path
}

// PackageOf returns the package part of a qualified path.
func PackageOf(path string) string {
	if i := strings.LastIndex(path, "::"); i >= 0 {
		return path[:i]
	}
	return ""
}

func profileMatches(profile, want string) bool {
	return profile == want || strings.HasSuffix(profile, "::"+want)
}

// Stereotype references a stereotype value declared by a profile.
type Stereotype struct {
	Profile string
	Value   string
}

func (s Stereotype) String() string {
	return s.Profile + "." + s.Value
}

// ParseStereotype parses "profile.value".
func ParseStereotype(s string) (Stereotype, error) {
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return Stereotype{}, fmt.Errorf("invalid stereotype %q: expected profile.value", s)
	}
	return Stereotype{Profile: s[:i], Value: s[i+1:]}, nil
}

// TagRef references a tag declared by a profile.
type TagRef struct {
	Profile string
	Tag     string
}

func (t TagRef) String() string {
	return t.Profile + "." + t.Tag
}

// ParseTagRef parses "profile.tag".
func ParseTagRef(s string) (TagRef, error) {
	st, err := ParseStereotype(s)
	if err != nil {
		return TagRef{}, fmt.Errorf("invalid tag %q: expected profile.tag", s)
	}
	return TagRef{Profile: st.Profile, Tag: st.Value}, nil
}

// TaggedValues maps tags to their values, keeping insertion order.
// The zero value is ready to use.
type TaggedValues struct {
	m *orderedmap.OrderedMap[TagRef, []string]
}

// Add appends a value for ref.
func (t *TaggedValues) Add(ref TagRef, value string) {
	if t.m == nil {
		t.m = orderedmap.New[TagRef, []string]()
	}
	values, _ := t.m.Get(ref)
	t.m.Set(ref, append(values, value))
}

// Get returns all values recorded for ref.
func (t *TaggedValues) Get(ref TagRef) []string {
	if t.m == nil {
		return nil
	}
	values, _ := t.m.Get(ref)
	return values
}

// Len returns the number of distinct tags.
func (t *TaggedValues) Len() int {
	if t.m == nil {
		return 0
	}
	return t.m.Len()
}

// All iterates tags in insertion order.
func (t *TaggedValues) All() iter.Seq2[TagRef, []string] {
	return func(yield func(TagRef, []string) bool) {
		if t.m == nil {
			return
		}
		for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Annotations holds the stereotypes and tagged values of an element.
type Annotations struct {
	Stereotypes []Stereotype
	Tags        TaggedValues
}

// AddStereotype records s once.
func (a *Annotations) AddStereotype(s Stereotype) {
	if !slices.Contains(a.Stereotypes, s) {
		a.Stereotypes = append(a.Stereotypes, s)
	}
}

// HasStereotype reports whether a stereotype with the given value is attached
// from a profile whose path is, or ends with, profile.
func (a *Annotations) HasStereotype(profile, value string) bool {
	for _, s := range a.Stereotypes {
		if s.Value == value && profileMatches(s.Profile, profile) {
			return true
		}
	}
	return false
}

// TagValue returns the first value of the tag from a matching profile.
func (a *Annotations) TagValue(profile, tag string) (string, bool) {
	for ref, values := range a.Tags.All() {
		if ref.Tag == tag && profileMatches(ref.Profile, profile) && len(values) > 0 {
			return values[0], true
		}
	}
	return "", false
}

// Doc returns the documentation attached with the doc profile.
func (a *Annotations) Doc() string {
	doc, _ := a.TagValue(DocProfile, TagDoc)
	return doc
}

// Property is a class property.
type Property struct {
	Annotations
	Name         string
	Type         string
	Multiplicity Multiplicity
	Default      Expr
}

// Constraint is a named boolean expression over $this.
type Constraint struct {
	Name string
	Expr Expr
}

// Class is a Pure class declaration.
type Class struct {
	Annotations
	Path        string
	Superclass  string
	Properties  []*Property
	Constraints []Constraint
}

// Name returns the simple class name.
func (c *Class) Name() string { return ElementName(c.Path) }

// Property looks up a declared (not inherited) property.
func (c *Class) Property(name string) *Property {
	for _, p := range c.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// EnumValue is one member of an enumeration.
type EnumValue struct {
	Annotations
	Name string
}

// Literal returns the original literal of the member: the name override when
// one is recorded, the member name otherwise.
func (v *EnumValue) Literal() string {
	if lit, ok := v.TagValue(SchemaProfileName, TagName); ok {
		return lit
	}
	return v.Name
}

// Enum is a Pure enumeration.
type Enum struct {
	Annotations
	Path    string
	Values  []*EnumValue
	Default string
}

// Name returns the simple enumeration name.
func (e *Enum) Name() string { return ElementName(e.Path) }

// Value looks up a member by name.
func (e *Enum) Value(name string) *EnumValue {
	for _, v := range e.Values {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Literals returns the original literals of all members in order.
func (e *Enum) Literals() []string {
	out := make([]string, len(e.Values))
	for i, v := range e.Values {
		out[i] = v.Literal()
	}
	return out
}

// Param is a function parameter.
type Param struct {
	Name         string
	Type         string
	Multiplicity Multiplicity
}

func (p Param) String() string {
	return p.Name + ": " + p.Type + p.Multiplicity.String()
}

// Function is a standalone Pure function.
type Function struct {
	Annotations
	Path               string
	Params             []Param
	ReturnType         string
	ReturnMultiplicity Multiplicity
	Body               Expr
}

// Name returns the simple function name.
func (f *Function) Name() string { return ElementName(f.Path) }

// Profile declares stereotypes and tags.
type Profile struct {
	Path        string
	Stereotypes []string
	Tags        []string
}

// AddStereotype declares value once.
func (p *Profile) AddStereotype(value string) {
	if !slices.Contains(p.Stereotypes, value) {
		p.Stereotypes = append(p.Stereotypes, value)
	}
}

// AddTag declares tag once.
func (p *Profile) AddTag(tag string) {
	if !slices.Contains(p.Tags, tag) {
		p.Tags = append(p.Tags, tag)
	}
}

// Model is a set of Pure elements rooted in a package.
type Model struct {
	Package   string
	Profiles  []*Profile
	Enums     []*Enum
	Functions []*Function
	Classes   []*Class
}

// Class looks up a class by qualified path.
func (m *Model) Class(path string) *Class {
	for _, c := range m.Classes {
		if c.Path == path {
			return c
		}
	}
	return nil
}

// Enum looks up an enumeration by qualified path.
func (m *Model) Enum(path string) *Enum {
	for _, e := range m.Enums {
		if e.Path == path {
			return e
		}
	}
	return nil
}

// Function looks up a function by qualified path.
func (m *Model) Function(path string) *Function {
	for _, f := range m.Functions {
		if f.Path == path {
			return f
		}
	}
	return nil
}

// Profile looks up a profile by qualified path.
func (m *Model) Profile(path string) *Profile {
	for _, p := range m.Profiles {
		if p.Path == path {
			return p
		}
	}
	return nil
}

// Resolve qualifies a relative element name with the model package when it
// does not already name a primitive or a qualified path.
func (m *Model) Resolve(name string) string {
	if name == "" || IsPrimitive(name) || strings.Contains(name, "::") {
		return name
	}
	return QualifiedName(m.Package, name)
}

// Lineage returns c followed by its superclasses, stopping at cycles or
// unknown superclasses.
func (m *Model) Lineage(c *Class) []*Class {
	var chain []*Class
	seen := make(map[*Class]bool)
	for c != nil && !seen[c] {
		seen[c] = true
		chain = append(chain, c)
		if c.Superclass == "" {
			break
		}
		c = m.Class(c.Superclass)
	}
	return chain
}

// AllProperties returns inherited properties first, then the class's own.
func (m *Model) AllProperties(c *Class) []*Property {
	chain := m.Lineage(c)
	var props []*Property
	for i := len(chain) - 1; i >= 0; i-- {
		props = append(props, chain[i].Properties...)
	}
	return props
}

// AllConstraints returns inherited constraints first, then the class's own.
func (m *Model) AllConstraints(c *Class) []Constraint {
	chain := m.Lineage(c)
	var out []Constraint
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].Constraints...)
	}
	return out
}

// Validate checks that superclasses and property types resolve within the
// model and that paths are unique.
func (m *Model) Validate() error {
	seen := make(map[string]bool)
	declare := func(path string) error {
		if path == "" {
			return fmt.Errorf("element with empty path")
		}
		if seen[path] {
			return fmt.Errorf("duplicate element %q", path)
		}
		seen[path] = true
		return nil
	}
	for _, e := range m.Enums {
		if err := declare(e.Path); err != nil {
			return err
		}
	}
	for _, c := range m.Classes {
		if err := declare(c.Path); err != nil {
			return err
		}
	}
	for _, f := range m.Functions {
		if err := declare(f.Path); err != nil {
			return err
		}
	}
	for _, c := range m.Classes {
		if c.Superclass != "" && m.Class(c.Superclass) == nil {
			return fmt.Errorf("class %s: unknown superclass %q", c.Path, c.Superclass)
		}
		names := make(map[string]bool, len(c.Properties))
		for _, p := range c.Properties {
			if p.Name == "" {
				return fmt.Errorf("class %s: property with empty name", c.Path)
			}
			if names[p.Name] {
				return fmt.Errorf("class %s: duplicate property %q", c.Path, p.Name)
			}
			names[p.Name] = true
			if !m.IsType(p.Type) {
				return fmt.Errorf("class %s: property %s has unknown type %q", c.Path, p.Name, p.Type)
			}
		}
	}
	return nil
}

// IsType reports whether t is a primitive or a class or enumeration of m.
func (m *Model) IsType(t string) bool {
	return IsPrimitive(t) || m.Class(t) != nil || m.Enum(t) != nil
}
