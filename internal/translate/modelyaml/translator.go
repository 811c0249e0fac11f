// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package modelyaml writes models as YAML model documents, the form the
// schema generator reads back.
package modelyaml

import (
	"bytes"

	"github.com/dacolabs/pureschema/internal/model"
)

// Translator renders a model as a YAML model document.
type Translator struct{}

// Name returns the translator's identifier.
func (t *Translator) Name() string {
	return "yaml"
}

// FileExtension returns the file extension for model documents.
func (t *Translator) FileExtension() string {
	return ".yaml"
}

// Translate encodes m.
func (t *Translator) Translate(m *model.Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := model.Encode(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
