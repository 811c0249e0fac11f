// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"github.com/charmbracelet/huh"
)

// RunGenerateModelForm asks for the values of an ad hoc schema to model
// generation that were not given as flags.
func RunGenerateModelForm(pkg, format *string, formats []string) error {
	var fields []huh.Field
	if *pkg == "" {
		fields = append(fields, huh.NewInput().
			Title("Pure package").
			Placeholder("meta::demo").
			Validate(packageValidator).
			Value(pkg))
	}
	if *format == "" {
		fields = append(fields, formatSelect("Output format", format, formats))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(Theme()).Run()
}

// RunSelectClassesForm asks which classes to generate schemas for.
func RunSelectClassesForm(selected *[]string, classes []string) error {
	options := make([]huh.Option[string], len(classes))
	for i, c := range classes {
		options[i] = huh.NewOption(c, c)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Classes").
				Options(options...).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return errNoneSelected
					}
					return nil
				}).
				Value(selected),
		),
	).WithTheme(Theme()).Run()
}
