// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"errors"
	"fmt"
)

// Kind is the outcome of an extraction.
type Kind int

const (
	// KindPayload means one payload was extracted. The payload may have
	// zero length.
	KindPayload Kind = iota

	// KindEmpty means the file was read successfully but holds nothing to
	// extract, e.g. a container without streams.
	KindEmpty

	// KindUnsupported means no extractor is registered for the label.
	KindUnsupported

	// KindFailure means a registered extractor could not read the file.
	KindFailure
)

// String returns the name of k.
func (k Kind) String() string {
	switch k {
	case KindPayload:
		return "payload"
	case KindEmpty:
		return "empty"
	case KindUnsupported:
		return "unsupported"
	case KindFailure:
		return "failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Strategy names how a payload is taken from a file.
type Strategy int

const (
	// StrategyNone is used when no extractor was selected.
	StrategyNone Strategy = iota

	// StrategyContainerStream returns the first named stream of a container.
	StrategyContainerStream

	// StrategyWholeFile returns the file content unmodified.
	StrategyWholeFile

	// StrategyDecompress returns the decompressed content of a compressed stream.
	StrategyDecompress

	// StrategyArchiveEntry returns the first regular file of an archive.
	StrategyArchiveEntry
)

// String returns the name of s.
func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyContainerStream:
		return "container-stream"
	case StrategyWholeFile:
		return "whole-file"
	case StrategyDecompress:
		return "decompress"
	case StrategyArchiveEntry:
		return "archive-entry"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Result is the outcome of [Dispatcher.Extract]. Exactly one of the kinds
// applies; Payload is only set for [KindPayload] and Err only for
// [KindUnsupported] and [KindFailure].
type Result struct {
	Kind     Kind
	Payload  []byte
	Label    string
	Strategy Strategy

	// Entry is the name of the stream or archive entry the payload was taken
	// from. It is empty for whole-file payloads.
	Entry string

	Err error
}

// Reason returns the failure reason of r, or an empty string if r did not fail.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// String returns a short description of r.
func (r Result) String() string {
	switch r.Kind {
	case KindPayload:
		return fmt.Sprintf("payload(%d bytes)", len(r.Payload))
	case KindUnsupported:
		return fmt.Sprintf("unsupported(%s)", r.Label)
	case KindFailure:
		return fmt.Sprintf("failure(%s)", r.Reason())
	default:
		return r.Kind.String()
	}
}

func payloadResult(label string, s Strategy, entry string, data []byte) Result {
	if data == nil {
		data = []byte{}
	}
	return Result{Kind: KindPayload, Payload: data, Label: label, Strategy: s, Entry: entry}
}

func emptyResult(label string, s Strategy) Result {
	return Result{Kind: KindEmpty, Label: label, Strategy: s}
}

func unsupportedResult(label string) Result {
	return Result{Kind: KindUnsupported, Label: label, Err: fmt.Errorf("%w: %q", ErrUnsupported, label)}
}

// failureResult wraps err with ErrExtraction unless it already carries one of
// the sentinel reasons.
func failureResult(label string, s Strategy, msg string, err error) Result {
	switch {
	case errors.Is(err, ErrContainerInvalid), errors.Is(err, ErrExtraction):
	case errors.Is(err, ErrReadLimitExceeded), errors.Is(err, ErrMaxExtractionSizeExceeded):
		err = fmt.Errorf("%w: %w", ErrExtraction, err)
	default:
		err = fmt.Errorf("%w: %s: %w", ErrExtraction, msg, err)
	}
	return Result{Kind: KindFailure, Label: label, Strategy: s, Err: err}
}
