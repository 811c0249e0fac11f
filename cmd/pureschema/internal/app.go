// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"

	"github.com/dacolabs/pureschema/internal/commands"
	"github.com/dacolabs/pureschema/internal/translate"
	"github.com/dacolabs/pureschema/internal/translate/markdown"
	"github.com/dacolabs/pureschema/internal/translate/modelyaml"
	"github.com/dacolabs/pureschema/internal/translate/pure"
)

func registerTranslators() {
	translate.Register(&pure.Translator{})
	translate.Register(&markdown.Translator{})
	translate.Register(&modelyaml.Translator{})
}

// Run is the main application logic, extracted for testability.
func Run(ctx context.Context, args []string) error {
	registerTranslators()
	rootCmd := commands.NewRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
