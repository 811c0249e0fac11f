// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var titleCaser = cases.Title(language.Und, cases.NoLower)

// foldAccents strips combining marks, so "Café" becomes "Cafe".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isWordRune(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// ToPascalCase converts a property or file name to a type name.
// Parts are split on anything that is not an ASCII letter or digit.
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(foldAccents(s), func(r rune) bool { return !isWordRune(r) })

	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(titleCaser.String(part))
	}
	result := sb.String()
	if result != "" && result[0] >= '0' && result[0] <= '9' {
		result = "_" + result
	}
	return result
}

// SanitizeIdentifier turns an arbitrary literal into a valid identifier.
// Runes outside [A-Za-z0-9_] become '_' and a leading digit gets a '_' prefix.
func SanitizeIdentifier(s string) string {
	var sb strings.Builder
	for _, r := range foldAccents(s) {
		if isWordRune(r) || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	result := sb.String()
	switch {
	case result == "":
		return "_"
	case result[0] >= '0' && result[0] <= '9':
		return "_" + result
	}
	return result
}

// namer hands out names that are unique within one scope.
type namer struct {
	used map[string]bool
}

func newNamer() *namer {
	return &namer{used: make(map[string]bool)}
}

// take returns base, or base followed by the smallest free counter >= 2.
func (n *namer) take(base string) string {
	name := base
	for i := 2; n.used[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	n.used[name] = true
	return name
}
