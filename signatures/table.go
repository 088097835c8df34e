// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package signatures

import (
	"bytes"
	"fmt"
)

// Signature holds the byte patterns for one type label. A file matches the
// signature if its prefix starts with any of the patterns.
type Signature struct {
	// Label is the type label reported on a match.
	Label string

	// Patterns are the literal prefixes, tested in order.
	Patterns [][]byte
}

// Table is an ordered, immutable collection of signatures. Lookups are
// read-only, so a single Table can be shared between goroutines.
type Table struct {
	signatures []Signature
	maxLength  int
}

// NewTable creates a Table from sigs. The order of sigs is the lookup order.
// Labels must be unique and every signature needs at least one non-empty
// pattern, otherwise a [*MalformedError] is returned.
func NewTable(sigs []Signature) (*Table, error) {
	var fieldErrors []FieldError
	seen := make(map[string]struct{}, len(sigs))
	t := &Table{signatures: make([]Signature, 0, len(sigs))}

	for _, sig := range sigs {
		if _, ok := seen[sig.Label]; ok {
			fieldErrors = append(fieldErrors, FieldError{Field: sig.Label, Message: "duplicate label"})
			continue
		}
		seen[sig.Label] = struct{}{}

		if len(sig.Patterns) == 0 {
			fieldErrors = append(fieldErrors, FieldError{Field: sig.Label, Message: "no patterns"})
			continue
		}

		patterns := make([][]byte, 0, len(sig.Patterns))
		for i, p := range sig.Patterns {
			if len(p) == 0 {
				fieldErrors = append(fieldErrors, FieldError{
					Field:   fmt.Sprintf("%s.%d", sig.Label, i),
					Message: "empty pattern",
				})
				continue
			}
			patterns = append(patterns, bytes.Clone(p))
			if len(p) > t.maxLength {
				t.maxLength = len(p)
			}
		}
		t.signatures = append(t.signatures, Signature{Label: sig.Label, Patterns: patterns})
	}

	if len(fieldErrors) > 0 {
		return nil, &MalformedError{Errors: fieldErrors}
	}
	return t, nil
}

// Match returns the label of the first signature that has a pattern which is a
// prefix of data. Signatures are tested in table order and patterns in the
// order they were defined, so the first hit wins even if later patterns would
// match as well.
func (t *Table) Match(data []byte) (string, bool) {
	for _, sig := range t.signatures {
		for _, p := range sig.Patterns {
			if bytes.HasPrefix(data, p) {
				return sig.Label, true
			}
		}
	}
	return "", false
}

// Len returns the number of labels in the table.
func (t *Table) Len() int {
	return len(t.signatures)
}

// Labels returns the labels in lookup order.
func (t *Table) Labels() []string {
	labels := make([]string, 0, len(t.signatures))
	for _, sig := range t.signatures {
		labels = append(labels, sig.Label)
	}
	return labels
}

// MaxPatternLength returns the length of the longest pattern. A prefix needs
// at least this many bytes to be tested against every pattern.
func (t *Table) MaxPatternLength() int {
	return t.maxLength
}
