// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package session provides project context loading for CLI commands.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dacolabs/pureschema/internal/config"
)

var (
	// ErrNotInitialized indicates no pureschema.yaml was found in the current directory.
	ErrNotInitialized = errors.New("not in a pureschema project (pureschema.yaml not found)")

	// ErrInvalidConfig indicates the config file exists but is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// contextKey is used to store Context in context.Context.
type contextKey struct{}

// Context holds the loaded project configuration.
type Context struct {
	Config *config.Config

	// Root is the directory holding the config file. Relative paths in the
	// configuration are resolved against it.
	Root string
}

// Path resolves a configured path against the project root.
func (c *Context) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// Load loads the project context from the current working directory and
// returns a new context.Context with the project Context stored in it.
func Load(ctx context.Context) (context.Context, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadDir(ctx, cwd)
}

// LoadDir is Load for an explicit project directory.
func LoadDir(ctx context.Context, dir string) (context.Context, error) {
	configPath := filepath.Join(dir, config.FileName)
	if _, statErr := os.Stat(configPath); errors.Is(statErr, os.ErrNotExist) {
		return nil, ErrNotInitialized
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return context.WithValue(ctx, contextKey{}, &Context{Config: cfg, Root: dir}), nil
}

// From extracts the project Context from a context.Context.
// Returns nil if no Context is stored.
func From(ctx context.Context) *Context {
	if pctx, ok := ctx.Value(contextKey{}).(*Context); ok {
		return pctx
	}
	return nil
}
