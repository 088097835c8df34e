// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"context"
	"fmt"
	"io"

	"github.com/bodgit/sevenzip"
)

// fileExtension7zip is the file extension for 7zip files
const fileExtension7zip = "7z"

// magicBytes7zip are the magic bytes for 7zip files
// reference: https://py7zr.readthedocs.io/en/latest/archive_format.html
var magicBytes7zip = [][]byte{
	{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C},
}

// is7zip checks if data is a 7zip archive
func is7zip(data []byte) bool {
	return matchesMagicBytes(data, 0, magicBytes7zip)
}

// extract7Zip returns the first regular file of the 7zip archive at path.
func extract7Zip(ctx context.Context, path string, cfg *Config, td *TelemetryData) ([]byte, string, error) {
	cfg.Logger().Info("extracting 7zip")

	f, size, err := openSized(path, cfg, td)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	reader, err := sevenzip.NewReader(f, size)
	if err != nil {
		return nil, "", fmt.Errorf("cannot create 7zip reader: %w", err)
	}
	return firstRegularEntry(ctx, &sevenZipWalker{r: reader}, cfg)
}

type sevenZipWalker struct {
	r  *sevenzip.Reader
	fp int
}

func (z *sevenZipWalker) Type() string {
	return fileExtension7zip
}

func (z *sevenZipWalker) Next() (archiveEntry, error) {
	if z.fp >= len(z.r.File) {
		return nil, io.EOF
	}
	defer func() { z.fp++ }()
	return &sevenZipEntry{z.r.File[z.fp]}, nil
}

type sevenZipEntry struct {
	f *sevenzip.File
}

func (z *sevenZipEntry) Name() string {
	return z.f.Name
}

func (z *sevenZipEntry) Size() int64 {
	return z.f.FileInfo().Size()
}

func (z *sevenZipEntry) IsRegular() bool {
	return z.f.FileInfo().Mode().IsRegular()
}

func (z *sevenZipEntry) Open() (io.ReadCloser, error) {
	return z.f.Open()
}
