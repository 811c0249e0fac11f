// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"fmt"
	"slices"
	"testing"

	"github.com/go-json-experiment/json"
	"pgregory.net/rapid"
)

// Arrays accept exactly the lengths the schema allows; an absent optional
// array is always fine.
func TestArrayBoundsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		minItems := rapid.IntRange(0, 4).Draw(t, "minItems")
		maxItems := minItems + rapid.IntRange(0, 4).Draw(t, "extra")
		required := rapid.Bool().Draw(t, "required")
		n := rapid.IntRange(0, 10).Draw(t, "n")

		req := "[]"
		if required {
			req = `["tags"]`
		}
		schema := fmt.Sprintf(`{"type":"object","required":%s,"properties":{"tags":{"type":"array","items":{"type":"string"},"minItems":%d,"maxItems":%d}}}`,
			req, minItems, maxItems)
		m, err := tryGenerate(schema)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		instance := map[string]any{}
		if n > 0 || required {
			items := make([]any, n)
			for i := range items {
				items[i] = "v"
			}
			instance["tags"] = items
		}
		violations, err := m.Check(m.Classes[0].Path, instance)
		if err != nil {
			t.Fatalf("check: %v", err)
		}

		want := (n == 0 && !required) || (n >= minItems && n <= maxItems)
		if got := len(violations) == 0; got != want {
			t.Fatalf("n=%d min=%d max=%d required=%v: valid=%v, want %v (%v)", n, minItems, maxItems, required, got, want, violations)
		}
	})
}

// A generated enumeration accepts exactly its original literals, however
// their member names were sanitized.
func TestEnumMembershipProperty(t *testing.T) {
	literal := rapid.StringMatching(`[ab9 .-]{1,3}`)
	rapid.Check(t, func(t *rapid.T) {
		literals := rapid.SliceOfNDistinct(literal, 1, 6, rapid.ID[string]).Draw(t, "literals")
		candidate := literal.Draw(t, "candidate")

		enum, err := json.Marshal(literals)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		schema := fmt.Sprintf(`{"type":"object","required":["v"],"properties":{"v":{"type":"string","enum":%s}}}`, enum)
		m, err := tryGenerate(schema)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(m.Enums) != 1 || !slices.Equal(m.Enums[0].Literals(), literals) {
			t.Fatalf("literals %v not preserved", literals)
		}

		violations, err := m.Check(m.Classes[0].Path, map[string]any{"v": candidate})
		if err != nil {
			t.Fatalf("check: %v", err)
		}
		want := slices.Contains(literals, candidate)
		if got := len(violations) == 0; got != want {
			t.Fatalf("candidate %q against %v: valid=%v, want %v", candidate, literals, got, want)
		}
	})
}
