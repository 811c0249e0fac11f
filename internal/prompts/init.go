// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"github.com/charmbracelet/huh"
)

// RunInitForm asks for the schema directory and the Pure package of a new
// project. It fills the provided pointers with user input.
func RunInitForm(schemaDir, pkg *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Schema directory").
				Placeholder("schemas").
				Validate(requiredValidator("schema directory")).
				Value(schemaDir),
			huh.NewInput().
				Title("Pure package").
				Placeholder("meta::demo").
				Validate(packageValidator).
				Value(pkg),
		),
	).WithTheme(Theme()).Run()
}
