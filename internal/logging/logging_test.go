// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestNew_Levels(t *testing.T) {
	quiet, err := New(false)
	require.NoError(t, err)
	assert.False(t, quiet.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, quiet.Core().Enabled(zapcore.WarnLevel))

	verbose, err := New(true)
	require.NoError(t, err)
	assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
}

func TestFrom(t *testing.T) {
	assert.NotNil(t, From(context.Background()))

	l := zaptest.NewLogger(t)
	assert.Same(t, l, From(WithLogger(context.Background(), l)))
}
