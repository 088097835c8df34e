// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nwaples/rardecode"
)

const fileExtensionRar = "rar"

// magicBytesRar are the magic bytes for Rar files.
var magicBytesRar = [][]byte{
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00},       // Rar 1.5
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}, // Rar 5.0
}

// isRar checks if the header matches the magic bytes for Rar files.
func isRar(data []byte) bool {
	return matchesMagicBytes(data, 0, magicBytesRar)
}

// extractRar streams the rar archive at path and returns its first regular file.
// Multi-volume and encrypted archives are not supported.
func extractRar(ctx context.Context, path string, cfg *Config, td *TelemetryData) ([]byte, string, error) {
	cfg.Logger().Info("extracting rar")

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	// limit input size
	limitedReader := newLimitErrorReader(f, cfg.MaxInputSize())
	defer captureInputSize(td, limitedReader)

	r, err := rardecode.NewReader(limitedReader, "")
	if err != nil {
		return nil, "", fmt.Errorf("cannot create rar reader: %w", err)
	}
	return firstRegularEntry(ctx, &rarWalker{r: r}, cfg)
}

// rarWalker is an archiveWalker for Rar files.
type rarWalker struct {
	r *rardecode.Reader
}

// Type returns the file extension for rar files.
func (rw *rarWalker) Type() string {
	return fileExtensionRar
}

// Next returns the next entry in the rar file.
func (rw *rarWalker) Next() (archiveEntry, error) {
	fh, err := rw.r.Next()
	if err != nil {
		return nil, err
	}
	return &rarEntry{fh, rw.r}, nil
}

// rarEntry is an archiveEntry for Rar files.
type rarEntry struct {
	f *rardecode.FileHeader
	r io.Reader
}

func (r *rarEntry) Name() string {
	return r.f.Name
}

func (r *rarEntry) Size() int64 {
	return r.f.UnPackedSize
}

func (r *rarEntry) IsRegular() bool {
	return !r.f.IsDir && r.f.Mode().IsRegular()
}

func (r *rarEntry) Open() (io.ReadCloser, error) {
	return &noopReaderCloser{r.r}, nil
}
