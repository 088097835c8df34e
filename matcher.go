// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/go-filesig/signatures"
)

// Source tells how the label of an [Identification] was determined.
type Source string

const (
	// SourceNone is set if the file was not identified.
	SourceNone Source = "none"

	// SourceSignatureTable is set if a pattern of the signature table matched.
	SourceSignatureTable Source = "signature-table"

	// SourceClassifier is set if the heuristic classifier labeled the file.
	SourceClassifier Source = "classifier"
)

// Identification is the outcome of [Matcher.Identify].
type Identification struct {
	// Label is the type label, or empty if the file was not identified.
	Label string

	// Source tells how Label was determined.
	Source Source

	// PrefixSize is the number of leading bytes that were inspected.
	PrefixSize int
}

// Identified reports whether a label was found.
func (i Identification) Identified() bool {
	return i.Label != ""
}

// Matcher identifies files by their leading bytes. With a signature table, the
// first label whose pattern is a prefix of the file wins. Without a table, the
// configured classifier labels the file.
//
// A Matcher is immutable and can be shared between goroutines.
type Matcher struct {
	cfg   *Config
	table *signatures.Table
}

// NewMatcher creates a Matcher. If source is empty, files are identified by the
// classifier of cfg. Otherwise the signature table at source is loaded, and a
// missing or malformed source results in an error that matches
// [ErrSourceNotFound] or [ErrSourceMalformed].
func NewMatcher(source string, cfg *Config) (*Matcher, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	m := &Matcher{cfg: cfg}

	if source == "" {
		cfg.Logger().Debug("no signature source, using classifier")
		return m, nil
	}

	table, err := signatures.Load(source)
	if err != nil {
		return nil, err
	}
	m.table = table
	cfg.Logger().Info("loaded signature table", "source", source, "labels", table.Len())

	// patterns longer than the prefix can never match
	if table.MaxPatternLength() > cfg.PrefixSize() {
		cfg.Logger().Warn("signature table contains patterns longer than the prefix size",
			"maxPatternLength", table.MaxPatternLength(), "prefixSize", cfg.PrefixSize())
	}

	return m, nil
}

// Table returns the loaded signature table, or nil if the matcher delegates
// to the classifier.
func (m *Matcher) Table() *signatures.Table {
	return m.table
}

// Identify reads the prefix of the file at path and determines its type label.
// An unidentified file is not an error: the returned [Identification] has an
// empty Label. Errors match [ErrFileNotFound], [ErrRead] or [ErrClassifier].
func (m *Matcher) Identify(ctx context.Context, path string) (id Identification, err error) {
	td := &TelemetryData{Operation: operationIdentify, Path: path}
	defer func() {
		td.Label = id.Label
		td.Source = id.Source
		td.LastError = err
		m.cfg.TelemetryHook()(ctx, td)
	}()
	defer captureDuration(td, now())

	id.Source = SourceNone

	if err := ctx.Err(); err != nil {
		return id, err
	}

	prefix, err := m.readPrefix(path)
	if err != nil {
		m.cfg.Logger().Error("cannot read file prefix", "path", path, "error", err)
		return id, err
	}
	td.InputSize = int64(len(prefix))
	id.PrefixSize = len(prefix)

	// signature table
	if m.table != nil {
		if label, ok := m.table.Match(prefix); ok {
			id.Label, id.Source = label, SourceSignatureTable
		}
		m.cfg.Logger().Debug("matched signature table", "path", path, "label", id.Label)
		return id, nil
	}

	// heuristic classifier
	label, err := m.cfg.Classifier().Classify(prefix)
	if err != nil {
		m.cfg.Logger().Error("classifier failed", "path", path, "error", err)
		return id, fmt.Errorf("%w: %w", ErrClassifier, err)
	}
	if label != "" {
		id.Label, id.Source = label, SourceClassifier
	}
	m.cfg.Logger().Debug("classified file", "path", path, "label", id.Label)
	return id, nil
}

// readPrefix opens path and reads at most the configured prefix size. The file
// is closed before readPrefix returns.
func (m *Matcher) readPrefix(path string) ([]byte, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()

	prefix, err := readPrefix(f, m.cfg.PrefixSize())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return prefix, nil
}
