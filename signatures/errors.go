// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package signatures

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrSourceNotFound is returned if the signature source does not exist or
	// cannot be opened.
	ErrSourceNotFound = errors.New("signature source not found")

	// ErrSourceMalformed is returned if the signature source cannot be decoded
	// into a signature table.
	ErrSourceMalformed = errors.New("signature source malformed")
)

// FieldError is a single problem found in a signature source.
type FieldError struct {
	Field   string
	Message string
}

// MalformedError collects the problems of a signature source that cannot be
// turned into a [Table]. It matches [ErrSourceMalformed] with errors.Is.
type MalformedError struct {
	Source string
	Errors []FieldError
	Cause  error
}

func (e *MalformedError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrSourceMalformed.Error())
	if e.Source != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Source)
		sb.WriteString(")")
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	for i, fe := range e.Errors {
		if i == 0 {
			sb.WriteString(":")
		}
		sb.WriteString(fmt.Sprintf(" %s: %s;", fe.Field, fe.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Is reports whether target is ErrSourceMalformed.
func (e *MalformedError) Is(target error) bool {
	return target == ErrSourceMalformed
}

func (e *MalformedError) Unwrap() error {
	return e.Cause
}
