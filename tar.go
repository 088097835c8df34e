// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
)

const fileExtensionTar = "tar"

// offsetTar is the offset where the magic bytes are located in the file
const offsetTar = 257

// magicBytesTar are the magic bytes for tar files
var magicBytesTar = [][]byte{
	[]byte("ustar\x00tar\x00"),
	[]byte("ustar\x00"),
	[]byte("ustar  \x00"),
}

// isTar checks if the header matches the magic bytes for tar files
func isTar(data []byte) bool {
	return matchesMagicBytes(data, offsetTar, magicBytesTar)
}

// extractTar streams the tar archive at path and returns its first regular file.
func extractTar(ctx context.Context, path string, cfg *Config, td *TelemetryData) ([]byte, string, error) {
	cfg.Logger().Info("extracting tar")

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	// limit input size
	limitedReader := newLimitErrorReader(f, cfg.MaxInputSize())
	defer captureInputSize(td, limitedReader)

	return firstRegularEntry(ctx, &tarWalker{tr: tar.NewReader(limitedReader)}, cfg)
}

// tarWalker is a walker for tar files
type tarWalker struct {
	tr *tar.Reader
}

// Type returns the file extension for tar files
func (t *tarWalker) Type() string {
	return fileExtensionTar
}

// Next returns the next entry in the tar file
func (t *tarWalker) Next() (archiveEntry, error) {
	hdr, err := t.tr.Next()
	if err != nil {
		return nil, err
	}
	return &tarEntry{hdr, t.tr}, nil
}

// tarEntry is an entry in a tar archive. Its content is only readable until
// the walker moves on.
type tarEntry struct {
	hdr *tar.Header
	r   io.Reader
}

func (t *tarEntry) Name() string {
	return t.hdr.Name
}

func (t *tarEntry) Size() int64 {
	return t.hdr.Size
}

func (t *tarEntry) IsRegular() bool {
	return t.hdr.FileInfo().Mode().IsRegular()
}

func (t *tarEntry) Open() (io.ReadCloser, error) {
	return &noopReaderCloser{t.r}, nil
}
