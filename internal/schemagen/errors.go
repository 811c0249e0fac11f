// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schemagen

import "fmt"

// UnknownElementError is returned when an included name or a property type
// does not resolve to an element of the model.
type UnknownElementError struct {
	Name string
	// Context names the property that referenced Name, if any.
	Context string
}

func (e *UnknownElementError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: unknown element %q", e.Context, e.Name)
	}
	return fmt.Sprintf("unknown element %q", e.Name)
}
