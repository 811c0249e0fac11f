// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package translate generates Pure models from JSON Schema documents and
// renders them through pluggable output translators.
package translate

import (
	"fmt"
	"slices"

	"github.com/dacolabs/pureschema/internal/model"
)

// Translator defines the interface all output translators must implement.
type Translator interface {
	// Name returns the translator's identifier (e.g., "pure", "markdown")
	Name() string

	// Translate renders a generated model in the target format.
	Translate(m *model.Model) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".pure", ".md")
	FileExtension() string
}

var translators = make(map[string]Translator)

// Register adds a translator to the registry.
func Register(t Translator) {
	translators[t.Name()] = t
}

// Get retrieves a translator by name.
func Get(name string) (Translator, error) {
	t, ok := translators[name]
	if !ok {
		return nil, fmt.Errorf("unknown translator: %s", name)
	}
	return t, nil
}

// Available returns all registered translator names, sorted.
func Available() []string {
	names := make([]string, 0, len(translators))
	for name := range translators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
