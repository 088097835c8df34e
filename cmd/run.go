// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/go-filesig"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

// CLI are the cli parameters for the filesig binary
type CLI struct {
	Files             []string         `arg:"" name:"file" help:"Path of the file(s) to identify." type:"path"`
	Database          string           `short:"d" env:"FILESIG_DATABASE" help:"Signature database (JSON, or YAML with .yaml/.yml extension). Without a database, files are classified by content." type:"path"`
	Extract           bool             `short:"e" help:"Attempt data extraction based on the identified file type."`
	Output            string           `short:"o" help:"Path to save extracted data. (default: STDOUT)" type:"path"`
	Properties        bool             `short:"p" help:"Print the property sets of a compound file."`
	Jobs              int              `short:"j" default:"4" help:"Number of files that are identified in parallel."`
	MaxExtractionSize int64            `optional:"" default:"1073741824" help:"Maximum size of an extracted payload (in bytes). (disable check: -1)"`
	MaxInputSize      int64            `optional:"" default:"1073741824" help:"Maximum input size that is read during extraction (in bytes). (disable check: -1)"`
	PrefixSize        int              `optional:"" default:"1024" help:"Number of leading bytes that are used for identification."`
	Metrics           bool             `short:"M" optional:"" default:"false" help:"Print metrics to log after identification and extraction."`
	Verbose           bool             `short:"v" optional:"" env:"FILESIG_VERBOSE" help:"Verbose logging."`
	Version           kong.VersionFlag `short:"V" optional:"" help:"Print release version information."`
}

// Validate checks flag combinations after parsing
func (c *CLI) Validate() error {
	if len(c.Files) == 0 {
		return fmt.Errorf("at least one file is required")
	}
	if (c.Extract || c.Properties) && len(c.Files) != 1 {
		return fmt.Errorf("--extract and --properties require exactly one file")
	}
	if c.Output != "" && !c.Extract {
		return fmt.Errorf("--output requires --extract")
	}
	if c.Jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1")
	}
	return nil
}

// Run the entrypoint into filesig as a cli tool
func Run(version, commit, date string) {
	// environment defaults from .env, if present
	_ = godotenv.Load()

	var cli CLI
	kong.Parse(&cli,
		kong.Description("Identifies file types by their signature and extracts embedded data."),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
		},
	)

	// Check for verbose output
	logLevel := slog.LevelWarn
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}

	// setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	os.Exit(cli.Execute(context.Background(), logger, os.Stdout, os.Stderr))
}

// Execute identifies the files and runs the requested follow-up actions. Results
// are written to stdout, error messages to stderr. It returns the exit code.
func (c *CLI) Execute(ctx context.Context, logger *slog.Logger, stdout, stderr io.Writer) int {

	// setup metrics hook
	metricsToLog := func(ctx context.Context, td *filesig.TelemetryData) {
		if c.Metrics {
			logger.Info(fmt.Sprintf("%s finished", td.Operation), "metrics", td)
		}
	}

	// process cli params
	cfg := filesig.NewConfig(
		filesig.WithLogger(logger),
		filesig.WithMaxExtractionSize(c.MaxExtractionSize),
		filesig.WithMaxInputSize(c.MaxInputSize),
		filesig.WithPrefixSize(c.PrefixSize),
		filesig.WithTelemetryHook(metricsToLog),
	)

	matcher, err := filesig.NewMatcher(c.Database, cfg)
	switch {
	case errors.Is(err, filesig.ErrSourceNotFound):
		logger.Error("loading signature database failed", "database", c.Database, "error", err)
		fmt.Fprintf(stderr, "Error: signature database not found: %s\n", c.Database)
		return 1
	case errors.Is(err, filesig.ErrSourceMalformed):
		logger.Error("loading signature database failed", "database", c.Database, "error", err)
		fmt.Fprintf(stderr, "Error: invalid signature database: %s\n", err)
		return 1
	case err != nil:
		logger.Error("unexpected error", "error", err)
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}

	if len(c.Files) > 1 {
		return c.identifyAll(ctx, matcher, logger, stdout)
	}
	return c.identifyOne(ctx, matcher, filesig.NewDispatcher(cfg), logger, stdout, stderr)
}

// identify runs the matcher and logs identification errors, which are not fatal
func identify(ctx context.Context, m *filesig.Matcher, logger *slog.Logger, path string) filesig.Identification {
	id, err := m.Identify(ctx, path)
	if err != nil {
		logger.Warn("file type not identified", "file", path, "error", err)
	}
	return id
}

// identifyAll identifies files in parallel and prints one line per file in argument order
func (c *CLI) identifyAll(ctx context.Context, m *filesig.Matcher, logger *slog.Logger, stdout io.Writer) int {
	labels := make([]string, len(c.Files))

	jobs := c.Jobs
	if jobs < 1 {
		jobs = 1
	}

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range c.Files {
		i, path := i, path
		g.Go(func() error {
			if id := identify(ctx, m, logger, path); id.Identified() {
				labels[i] = id.Label
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, path := range c.Files {
		label := labels[i]
		if label == "" {
			label = "unidentified"
		}
		fmt.Fprintf(stdout, "%s: %s\n", path, label)
	}
	return 0
}

// identifyOne identifies a single file, prints properties and extracts data if requested
func (c *CLI) identifyOne(ctx context.Context, m *filesig.Matcher, d *filesig.Dispatcher, logger *slog.Logger, stdout, stderr io.Writer) int {
	path := c.Files[0]

	id := identify(ctx, m, logger, path)
	if !id.Identified() {
		fmt.Fprintln(stdout, "File type not identified.")
		return 0
	}
	fmt.Fprintf(stdout, "Identified file type: %s\n", id.Label)

	if c.Properties {
		props, err := d.Properties(path)
		if err != nil {
			logger.Warn("cannot read properties", "file", path, "error", err)
		}
		for _, p := range props {
			fmt.Fprintf(stdout, "%s/%s: %s\n", p.Stream, p.Name, p.Value)
		}
	}

	if !c.Extract {
		return 0
	}

	res := d.Extract(ctx, path, id.Label)
	switch res.Kind {
	case filesig.KindFailure:
		logger.Error("extraction failed", "file", path, "reason", res.Reason())
	case filesig.KindUnsupported:
		logger.Warn("no extraction method defined for file type", "label", id.Label)
	case filesig.KindEmpty:
		logger.Warn("nothing to extract", "file", path)
	}
	if res.Kind != filesig.KindPayload || len(res.Payload) == 0 {
		fmt.Fprintln(stdout, "No data extracted.")
		return 0
	}

	// write payload to stdout
	if c.Output == "" {
		logger.Warn("no output path specified, writing extracted data to STDOUT (may be binary data)")
		if _, err := stdout.Write(res.Payload); err != nil {
			fmt.Fprintf(stderr, "Error writing extracted data: %s\n", err)
			return 1
		}
		return 0
	}

	// write payload to file
	if err := os.WriteFile(c.Output, res.Payload, 0o640); err != nil {
		logger.Error("writing extracted data failed", "output", c.Output, "error", err)
		fmt.Fprintf(stderr, "Error writing extracted data to file: %s\n", err)
		return 1
	}
	logger.Info("extracted data saved", "output", c.Output, "entry", res.Entry, "size", len(res.Payload))
	fmt.Fprintf(stdout, "Extracted data saved to: %s\n", c.Output)
	return 0
}
