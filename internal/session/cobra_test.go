// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCommand(t *testing.T) {
	testDir, err := filepath.Abs("testdata/valid")
	require.NoError(t, err)

	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()
	require.NoError(t, os.Chdir(testDir))

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	assert.Nil(t, FromCommand(cmd))

	require.NoError(t, PreRunLoad(cmd, nil))
	pctx := FromCommand(cmd)
	require.NotNil(t, pctx)
	assert.Len(t, pctx.Config.ToModel, 1)
}

func TestRequireFromCommand(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	_, err := RequireFromCommand(cmd)
	assert.EqualError(t, err, "project context not loaded")

	ctx, err := LoadDir(context.Background(), "testdata/valid")
	require.NoError(t, err)
	cmd.SetContext(ctx)

	pctx, err := RequireFromCommand(cmd)
	require.NoError(t, err)
	assert.Equal(t, "testdata/valid", pctx.Root)
}
