// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFill(t *testing.T) {
	saved := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = saved[0], saved[1], saved[2] })

	Version, Commit, Date = "dev", "none", "unknown"
	fill(&debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})
	assert.Equal(t, "v1.2.3", Short())
	assert.Equal(t, Build{Version: "v1.2.3", Commit: "0123456", Date: "2026-01-02T03:04:05Z", Go: Get().Go}, Get())
	assert.Contains(t, Info(), "pureschema version v1.2.3 (commit: 0123456")

	Version = "v9.9.9"
	fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, "v9.9.9", Short())
}
