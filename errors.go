// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"errors"

	"github.com/hashicorp/go-filesig/signatures"
)

var (
	// ErrSourceNotFound is returned by [NewMatcher] if the signature source
	// does not exist or cannot be read.
	ErrSourceNotFound = signatures.ErrSourceNotFound

	// ErrSourceMalformed is returned by [NewMatcher] if the signature source
	// cannot be decoded into a signature table.
	ErrSourceMalformed = signatures.ErrSourceMalformed

	// ErrFileNotFound is returned by [Matcher.Identify] if the file does not exist.
	ErrFileNotFound = errors.New("filesig: file not found")

	// ErrRead is returned by [Matcher.Identify] if the file prefix cannot be read.
	ErrRead = errors.New("filesig: cannot read file")

	// ErrClassifier is returned by [Matcher.Identify] if the classifier failed.
	ErrClassifier = errors.New("filesig: classifier failed")

	// ErrContainerInvalid is the error of a failed [Result] if the file is not a
	// well-formed container.
	ErrContainerInvalid = errors.New("not a valid container")

	// ErrExtraction is the error of a failed [Result] if the file could not be
	// read or decoded.
	ErrExtraction = errors.New("filesig: extraction failed")

	// ErrUnsupported is the error of an unsupported [Result].
	ErrUnsupported = errors.New("filesig: no extractor for type")

	// ErrReadLimitExceeded is returned if an input exceeds the configured
	// maximum input size.
	ErrReadLimitExceeded = errors.New("filesig: read limit exceeded")

	// ErrMaxExtractionSizeExceeded is returned if a payload exceeds the configured
	// maximum extraction size.
	ErrMaxExtractionSizeExceeded = errors.New("filesig: maximum extraction size exceeded")
)
