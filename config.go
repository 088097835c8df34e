// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"context"
	"io"
	"log/slog"

	"github.com/hashicorp/go-filesig/classifier"
	"github.com/hashicorp/go-filesig/container"
)

// logger is the subset of [log/slog.Logger] used for identification and extraction
type logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ConfigOption is a function pointer to implement the option pattern
type ConfigOption func(*Config)

// Config provides a configuration struct and options to adjust the configuration.
//
// The configuration struct holds all configuration options for identification and
// extraction. The configuration options can be adjusted using the option pattern style.
//
// A Config must not be changed after it has been handed to a [Matcher] or a [Dispatcher].
type Config struct {
	// classifier labels files if no signature table is loaded
	classifier classifier.Classifier

	// containerParser reads the directory of container files
	containerParser container.Parser

	// logger stream for identification and extraction
	logger logger

	// maxExtractionSize is the maximum size of an extracted payload.
	// Any negative value disables the check.
	maxExtractionSize int64

	// maxInputSize is the maximum size of the input that is read during extraction.
	// Any negative value disables the check.
	maxInputSize int64

	// prefixSize is the number of leading bytes read for identification
	prefixSize int

	// telemetryHook is a function to consume telemetry data after every call
	telemetryHook TelemetryHook
}

// CheckExtractionSize checks if size exceeds the configured maximum. If the maximum is exceeded,
// a [ErrMaxExtractionSizeExceeded] error is returned.
func (c *Config) CheckExtractionSize(size int64) error {

	// check if disabled
	if c.MaxExtractionSize() < 0 {
		return nil
	}

	// check value
	if size > c.MaxExtractionSize() {
		return ErrMaxExtractionSizeExceeded
	}
	return nil
}

// Classifier returns the heuristic classifier.
func (c *Config) Classifier() classifier.Classifier {
	return c.classifier
}

// ContainerParser returns the container directory parser.
func (c *Config) ContainerParser() container.Parser {
	return c.containerParser
}

// Logger returns the logger.
func (c *Config) Logger() logger {
	return c.logger
}

// MaxExtractionSize returns the maximum size of an extracted payload.
func (c *Config) MaxExtractionSize() int64 {
	return c.maxExtractionSize
}

// MaxInputSize returns the maximum size of the input.
func (c *Config) MaxInputSize() int64 {
	return c.maxInputSize
}

// PrefixSize returns the number of leading bytes that are read for identification.
func (c *Config) PrefixSize() int {
	return c.prefixSize
}

// TelemetryHook returns the telemetry hook.
func (c *Config) TelemetryHook() TelemetryHook {
	if c.telemetryHook == nil {
		return defaultTelemetryHook
	}
	return c.telemetryHook
}

const (
	defaultMaxExtractionSize = 1 << (10 * 3) // 1 Gb
	defaultMaxInputSize      = 1 << (10 * 3) // 1 Gb
	defaultPrefixSize        = 1024          // 1 Kb
)

var (
	// slog to discard
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	// no operation telemetry hook
	defaultTelemetryHook = func(ctx context.Context, d *TelemetryData) {
		// noop
	}
)

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style.
func NewConfig(opts ...ConfigOption) *Config {

	// setup default values
	config := &Config{
		classifier:        classifier.NewMimetype(),
		containerParser:   container.NewMscfb(),
		logger:            defaultLogger,
		maxExtractionSize: defaultMaxExtractionSize,
		maxInputSize:      defaultMaxInputSize,
		prefixSize:        defaultPrefixSize,
		telemetryHook:     defaultTelemetryHook,
	}

	// Loop through each option
	for _, opt := range opts {
		opt(config)
	}

	return config
}

// WithClassifier options pattern function to set the classifier that labels files
// when no signature table is loaded.
func WithClassifier(cl classifier.Classifier) ConfigOption {
	return func(c *Config) {
		if cl != nil {
			c.classifier = cl
		}
	}
}

// WithContainerParser options pattern function to set the parser for container files.
func WithContainerParser(p container.Parser) ConfigOption {
	return func(c *Config) {
		if p != nil {
			c.containerParser = p
		}
	}
}

// WithLogger options pattern function to set a custom logger.
func WithLogger(logger logger) ConfigOption {
	return func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxExtractionSize options pattern function to set the maximum size of an
// extracted payload. (-1 to disable check)
func WithMaxExtractionSize(maxExtractionSize int64) ConfigOption {
	return func(c *Config) {
		c.maxExtractionSize = maxExtractionSize
	}
}

// WithMaxInputSize options pattern function to set MaxInputSize for the extraction input file. (-1 to disable check)
func WithMaxInputSize(maxInputSize int64) ConfigOption {
	return func(c *Config) {
		c.maxInputSize = maxInputSize
	}
}

// WithPrefixSize options pattern function to set the number of leading bytes that are
// read for identification. Values below 1 are ignored.
func WithPrefixSize(size int) ConfigOption {
	return func(c *Config) {
		if size > 0 {
			c.prefixSize = size
		}
	}
}

// WithTelemetryHook options pattern function to set a [TelemetryHook], which is called after
// every identification and extraction.
func WithTelemetryHook(hook TelemetryHook) ConfigOption {
	return func(c *Config) {
		c.telemetryHook = hook
	}
}
