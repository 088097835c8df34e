// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
)

// archiveWalker is an interface that represents a file walker in an archive
type archiveWalker interface {
	Type() string
	Next() (archiveEntry, error)
}

// archiveEntry is an interface that represents a file in an archive
type archiveEntry interface {
	IsRegular() bool
	Name() string
	Open() (io.ReadCloser, error)
	Size() int64
}

// noopReaderCloser wraps readers that are owned by an archive reader. Closing
// the entry must not close the archive.
type noopReaderCloser struct {
	io.Reader
}

func (n *noopReaderCloser) Close() error {
	return nil
}

// firstRegularEntry walks the archive until the first regular file and returns
// its content and name. Directories, links and other special entries are skipped.
func firstRegularEntry(ctx context.Context, w archiveWalker, cfg *Config) ([]byte, string, error) {
	for {
		// check if context is canceled
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		ae, err := w.Next()
		if err == io.EOF {
			return nil, "", errNothingToExtract
		}
		if err != nil {
			return nil, "", fmt.Errorf("cannot read %s entry: %w", w.Type(), err)
		}

		if !ae.IsRegular() {
			cfg.Logger().Debug("skip entry", "type", w.Type(), "name", ae.Name())
			continue
		}

		data, err := readEntry(ae, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("cannot read %s entry %q: %w", w.Type(), ae.Name(), err)
		}
		return data, ae.Name(), nil
	}
}

// readEntry reads ae into memory, bounded by the maximum extraction size.
func readEntry(ae archiveEntry, cfg *Config) ([]byte, error) {
	if err := cfg.CheckExtractionSize(ae.Size()); err != nil {
		return nil, err
	}

	rc, err := ae.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(limitWriter(&buf, cfg.MaxExtractionSize()), rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// openSized opens path for random access and checks its size against the
// maximum input size. The caller closes the returned file.
func openSized(path string, cfg *Config, td *TelemetryData) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("cannot stat file: %w", err)
	}
	size := stat.Size()
	td.InputSize = size

	if cfg.MaxInputSize() >= 0 && size > cfg.MaxInputSize() {
		f.Close()
		return nil, 0, ErrReadLimitExceeded
	}
	return f, size, nil
}
