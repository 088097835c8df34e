// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
)

// fileExtensionZip is the file extension for zip files.
const fileExtensionZip = "zip"

// magicBytesZip contains the magic bytes for a zip archive.
// reference: https://golang.org/pkg/archive/zip/
var magicBytesZip = [][]byte{
	{0x50, 0x4B, 0x03, 0x04},
}

// isZip checks if data is a zip archive.
func isZip(data []byte) bool {
	return matchesMagicBytes(data, 0, magicBytesZip)
}

// extractZip returns the first regular file of the zip archive at path.
func extractZip(ctx context.Context, path string, cfg *Config, td *TelemetryData) ([]byte, string, error) {
	cfg.Logger().Info("extracting zip")

	f, size, err := openSized(path, cfg, td)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	reader, err := zip.NewReader(f, size)
	if err != nil {
		return nil, "", fmt.Errorf("cannot create zip reader: %w", err)
	}
	return firstRegularEntry(ctx, &zipWalker{zr: reader}, cfg)
}

// zipWalker is a walker for zip files
type zipWalker struct {
	zr *zip.Reader
	fp int
}

// Type returns the file extension for zip files
func (z *zipWalker) Type() string {
	return fileExtensionZip
}

// Next returns the next entry in the zip archive
func (z *zipWalker) Next() (archiveEntry, error) {
	if z.fp >= len(z.zr.File) {
		return nil, io.EOF
	}
	defer func() { z.fp++ }()
	return &zipEntry{z.zr.File[z.fp]}, nil
}

// zipEntry is an entry in a zip archive
type zipEntry struct {
	zf *zip.File
}

func (z *zipEntry) Name() string {
	return z.zf.Name
}

func (z *zipEntry) Size() int64 {
	return int64(z.zf.UncompressedSize64)
}

func (z *zipEntry) IsRegular() bool {
	return z.zf.Mode().IsRegular()
}

func (z *zipEntry) Open() (io.ReadCloser, error) {
	return z.zf.Open()
}
