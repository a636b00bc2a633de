package core

import (
	"strings"

	"github.com/pkg/errors"
)

// FieldMask is a parsed "updateMask" request parameter: the set of paths a
// partial update is allowed to touch.
type FieldMask map[string]struct{}

// ParseFieldMask parses a comma-separated list of field paths. An empty or
// missing mask is invalid for partial updates, so parsing it is an error.
func ParseFieldMask(s string) (FieldMask, error) {
	mask := FieldMask{}
	for _, p := range strings.Split(s, ",") {
		p = CleanString(p)
		if p == "" {
			continue
		}
		mask[p] = struct{}{}
	}
	if len(mask) == 0 {
		return nil, NewValidationError(errors.New("updateMask is required"))
	}
	return mask, nil
}

// Has reports whether the mask names the given path.
func (m FieldMask) Has(path string) bool {
	_, ok := m[path]
	return ok
}

// SubsetOf reports whether every path in the mask belongs to allowed.
func (m FieldMask) SubsetOf(allowed ...string) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	for p := range m {
		if _, ok := set[p]; !ok {
			return false
		}
	}
	return true
}

// Intersects reports whether the mask names at least one of the given paths.
func (m FieldMask) Intersects(paths ...string) bool {
	for _, p := range paths {
		if m.Has(p) {
			return true
		}
	}
	return false
}

// Paths returns the mask's paths in unspecified order.
func (m FieldMask) Paths() []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	return paths
}
