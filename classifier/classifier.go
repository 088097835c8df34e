// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package classifier provides heuristic content classification for buffers
// that did not match a signature table.
package classifier

import (
	"github.com/gabriel-vasile/mimetype"
)

// Classifier returns a type label for a byte buffer. An empty label with a nil
// error means the buffer could not be classified.
type Classifier interface {
	Classify(data []byte) (string, error)
}

// Func adapts an ordinary function to the [Classifier] interface.
type Func func(data []byte) (string, error)

// Classify calls f(data).
func (f Func) Classify(data []byte) (string, error) {
	return f(data)
}

// Mimetype classifies buffers with the detection tree of
// github.com/gabriel-vasile/mimetype and returns MIME type strings.
type Mimetype struct{}

// NewMimetype returns a new [Mimetype] classifier.
func NewMimetype() *Mimetype {
	return &Mimetype{}
}

// Classify returns the most specific MIME type detected for data. The root of
// the detection tree (application/octet-stream) is reported as unknown.
func (m *Mimetype) Classify(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if mt == nil || mt.Parent() == nil {
		return "", nil
	}
	return mt.String(), nil
}

// Lineage returns the canonical form of label followed by its known MIME
// ancestors, most specific first. Aliases known to mimetype resolve to their
// canonical type. Unknown labels yield a nil slice.
func Lineage(label string) []string {
	var lineage []string
	for mt := mimetype.Lookup(label); mt != nil; mt = mt.Parent() {
		lineage = append(lineage, mt.String())
	}
	return lineage
}
