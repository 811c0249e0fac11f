// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dacolabs/pureschema/internal/jschema"
	"github.com/dacolabs/pureschema/internal/model"
	"github.com/dacolabs/pureschema/internal/translate"
	"github.com/go-json-experiment/json"
)

// CheckPackage is the package models are generated in for checks.
const CheckPackage = "meta::check"

// ReadSchemaFile reads one schema file, together with the files it
// references from the same directory, and generates its model in pkg.
func ReadSchemaFile(schemaFile, pkg string) (*model.Model, *jschema.Document, error) {
	dir, name := filepath.Split(schemaFile)
	if dir == "" {
		dir = "."
	}
	doc, err := jschema.NewReader(os.DirFS(dir)).ReadFile(name)
	if err != nil {
		return nil, nil, err
	}
	m, err := translate.Generate(doc, translate.Options{Package: pkg})
	if err != nil {
		return nil, nil, err
	}
	return m, doc, nil
}

// SchemaModel generates the model of a schema file in CheckPackage and
// returns it with the path of the class generated for the file.
func SchemaModel(schemaFile string) (*model.Model, string, error) {
	m, doc, err := ReadSchemaFile(schemaFile, CheckPackage)
	if err != nil {
		return nil, "", err
	}
	root := doc.Roots()[0]
	class := model.QualifiedName(CheckPackage, translate.ToPascalCase(root.Name))
	if m.Class(class) == nil {
		return nil, "", fmt.Errorf("%s does not describe an object", schemaFile)
	}
	return m, class, nil
}

// CheckInstance decodes a JSON instance and checks it against class.
func CheckInstance(m *model.Model, class string, instance []byte) ([]model.Violation, error) {
	var v any
	if err := json.Unmarshal(instance, &v); err != nil {
		return nil, fmt.Errorf("failed to decode instance: %w", err)
	}
	return m.Check(m.Resolve(class), v)
}
