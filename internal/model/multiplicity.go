// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Many marks an unbounded upper bound.
const Many = -1

// Multiplicity is a lower/upper bound pair. Upper is Many when unbounded.
type Multiplicity struct {
	Lower int
	Upper int
}

// Common multiplicities.
var (
	One      = Multiplicity{Lower: 1, Upper: 1}
	ZeroOne  = Multiplicity{Lower: 0, Upper: 1}
	ZeroMany = Multiplicity{Lower: 0, Upper: Many}
	OneMany  = Multiplicity{Lower: 1, Upper: Many}
)

// String renders the multiplicity in Pure syntax: [1], [0..1], [*], [1..*].
func (m Multiplicity) String() string {
	switch {
	case m.Upper == Many && m.Lower == 0:
		return "[*]"
	case m.Upper == Many:
		return fmt.Sprintf("[%d..*]", m.Lower)
	case m.Lower == m.Upper:
		return fmt.Sprintf("[%d]", m.Lower)
	default:
		return fmt.Sprintf("[%d..%d]", m.Lower, m.Upper)
	}
}

// IsMany reports whether more than one value is allowed.
func (m Multiplicity) IsMany() bool {
	return m.Upper == Many || m.Upper > 1
}

// IsRequired reports whether at least one value is required.
func (m Multiplicity) IsRequired() bool {
	return m.Lower >= 1
}

// Admits reports whether a collection of n values satisfies the bounds.
func (m Multiplicity) Admits(n int) bool {
	if n < m.Lower {
		return false
	}
	return m.Upper == Many || n <= m.Upper
}

// ParseMultiplicity parses the Pure syntax produced by String.
func ParseMultiplicity(s string) (Multiplicity, error) {
	body := strings.TrimSpace(s)
	if !strings.HasPrefix(body, "[") || !strings.HasSuffix(body, "]") {
		return Multiplicity{}, fmt.Errorf("invalid multiplicity %q", s)
	}
	body = strings.TrimSpace(body[1 : len(body)-1])

	bound := func(v string) (int, error) {
		v = strings.TrimSpace(v)
		if v == "*" {
			return Many, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid multiplicity %q", s)
		}
		return n, nil
	}

	var m Multiplicity
	if lo, hi, ok := strings.Cut(body, ".."); ok {
		lower, err := bound(lo)
		if err != nil {
			return Multiplicity{}, err
		}
		if lower == Many {
			return Multiplicity{}, fmt.Errorf("invalid multiplicity %q: lower bound cannot be *", s)
		}
		upper, err := bound(hi)
		if err != nil {
			return Multiplicity{}, err
		}
		m = Multiplicity{Lower: lower, Upper: upper}
	} else {
		n, err := bound(body)
		if err != nil {
			return Multiplicity{}, err
		}
		if n == Many {
			m = ZeroMany
		} else {
			m = Multiplicity{Lower: n, Upper: n}
		}
	}
	if m.Upper != Many && m.Upper < m.Lower {
		return Multiplicity{}, fmt.Errorf("invalid multiplicity %q: upper bound below lower bound", s)
	}
	return m, nil
}
