// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-filesig/container"
)

// Dispatcher maps a type label to an extraction strategy and runs it against a
// file. The set of supported labels is fixed; see [Dispatcher.Supports].
//
// Container files are reduced to their first named stream in directory order and
// archives to their first regular file. Other streams and entries are ignored:
// a payload is not a complete recovery of the file content.
//
// A Dispatcher is immutable and can be shared between goroutines.
type Dispatcher struct {
	cfg *Config
}

// NewDispatcher creates a Dispatcher. If cfg is nil, the default configuration
// is used.
func NewDispatcher(cfg *Config) *Dispatcher {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Dispatcher{cfg: cfg}
}

// Supports reports whether an extractor is registered for label.
func (d *Dispatcher) Supports(label string) bool {
	_, _, ok := findExtractor(label)
	return ok
}

// StrategyFor returns the strategy that [Dispatcher.Extract] would use for label,
// or [StrategyNone].
func (d *Dispatcher) StrategyFor(label string) Strategy {
	ex, _, ok := findExtractor(label)
	if !ok {
		return StrategyNone
	}
	return ex.Strategy
}

// Extract reads the file at path with the strategy registered for label. The file
// is only read, and extraction is attempted exactly once. A label without
// extractor yields a [KindUnsupported] result, never a failure.
func (d *Dispatcher) Extract(ctx context.Context, path string, label string) (res Result) {
	td := &TelemetryData{Operation: operationExtract, Path: path, Label: label}
	defer func() {
		td.Strategy = res.Strategy.String()
		td.Outcome = res.Kind.String()
		td.PayloadSize = int64(len(res.Payload))
		td.LastError = res.Err
		d.cfg.TelemetryHook()(ctx, td)
	}()
	defer captureDuration(td, now())

	ex, key, ok := findExtractor(label)
	if !ok {
		d.cfg.Logger().Info("no extractor for label", "label", label)
		return unsupportedResult(label)
	}
	d.cfg.Logger().Debug("selected extractor", "label", label, "key", key, "strategy", ex.Strategy.String())

	// check if context is canceled
	if err := ctx.Err(); err != nil {
		return failureResult(label, ex.Strategy, "context error", err)
	}

	// verify magic bytes before the format reader is started
	if ex.HeaderCheck != nil {
		if err := checkHeader(path, ex); err != nil {
			d.cfg.Logger().Error("header check failed", "path", path, "error", err)
			return failureResult(label, ex.Strategy, "header check failed", err)
		}
	}

	data, entry, err := ex.Extract(ctx, path, d.cfg, td)
	if errors.Is(err, errNothingToExtract) {
		d.cfg.Logger().Info("nothing to extract", "path", path, "label", label)
		return emptyResult(label, ex.Strategy)
	}
	if err != nil {
		d.cfg.Logger().Error("extraction failed", "path", path, "label", label, "error", err)
		return failureResult(label, ex.Strategy, "cannot extract", err)
	}

	d.cfg.Logger().Info("extracted payload", "path", path, "entry", entry, "size", len(data))
	return payloadResult(label, ex.Strategy, entry, data)
}

// Properties returns the decoded property sets of the container file at path.
// It fails if the configured container parser cannot decode property sets.
func (d *Dispatcher) Properties(path string) ([]container.Property, error) {
	pr, ok := d.cfg.ContainerParser().(container.PropertyReader)
	if !ok {
		return nil, fmt.Errorf("%w: container parser cannot read properties", ErrUnsupported)
	}
	if !d.cfg.ContainerParser().IsValid(path) {
		return nil, ErrContainerInvalid
	}
	props, err := pr.Properties(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	return props, nil
}

// checkHeader reads the leading bytes of path and matches them against the
// magic bytes of ex.
func checkHeader(path string, ex availableExtractor) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header, err := readPrefix(f, maxHeaderLength)
	if err != nil {
		return err
	}
	if !ex.HeaderCheck(header) {
		return fmt.Errorf("magic bytes do not match %s", ex.Strategy)
	}
	return nil
}
