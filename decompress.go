// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

type decompressionFunc func(io.Reader) (io.Reader, error)

// codec describes a compressed stream format.
type codec struct {
	// ext is the file extension without the leading dot
	ext string

	// magic holds the possible magic bytes at the start of the stream, if any
	magic [][]byte

	// open starts decompressing a stream
	open decompressionFunc
}

// matches checks if header starts with the magic bytes of c.
func (c codec) matches(header []byte) bool {
	return matchesMagicBytes(header, 0, c.magic)
}

// decompressExtractor returns the dispatch table entry for c. Formats without
// magic bytes get no header check.
func decompressExtractor(c codec) availableExtractor {
	ex := availableExtractor{
		Strategy:   StrategyDecompress,
		MagicBytes: c.magic,
		Extract: func(ctx context.Context, path string, cfg *Config, td *TelemetryData) ([]byte, string, error) {
			return decompress(ctx, path, cfg, td, c.open, c.ext)
		},
	}
	if len(c.magic) > 0 {
		ex.HeaderCheck = c.matches
	}
	return ex
}

// decompress opens the file at path, decompresses it with decFunc and returns the
// decompressed bytes together with the name of the decompressed content.
func decompress(ctx context.Context, path string, cfg *Config, td *TelemetryData, decFunc decompressionFunc, fileExt string) ([]byte, string, error) {
	cfg.Logger().Info("decompress", "fileExt", fileExt)

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	// limit input size
	limitedReader := newLimitErrorReader(f, cfg.MaxInputSize())
	defer captureInputSize(td, limitedReader)

	// start decompression
	decompressedStream, err := decFunc(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("cannot start decompression: %w", err)
	}
	defer func() {
		if closer, ok := decompressedStream.(io.Closer); ok {
			closer.Close()
		}
	}()

	// check if context is canceled
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(limitWriter(&buf, cfg.MaxExtractionSize()), decompressedStream); err != nil {
		return nil, "", fmt.Errorf("cannot decompress: %w", err)
	}

	// check if context is canceled
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	name := decompressedName(filepath.Base(path), fileExt)
	cfg.Logger().Debug("decompressed", "name", name, "size", buf.Len())
	return buf.Bytes(), name, nil
}

// captureInputSize records how many bytes have been read from the input
func captureInputSize(td *TelemetryData, ler *limitErrorReader) {
	td.InputSize = ler.ReadBytes()
}

// defaultDecompressedSuffix is appended to the name of the decompressed content
// if the input name does not end with the file extension
const defaultDecompressedSuffix = "decompressed"

// decompressedName removes the file extension from inputName, e.g. "data.txt.gz"
// becomes "data.txt". Names without the extension get a suffix instead.
func decompressedName(inputName string, fileExt string) string {
	ext := "." + fileExt
	newName := inputName

	// remove file extension
	if strings.HasSuffix(strings.ToLower(inputName), strings.ToLower(ext)) {
		newName = newName[:len(newName)-len(ext)]
	}

	// check if file extension has been removed, if not, add a suffix
	if newName == inputName || newName == "" || !utf8.ValidString(newName) {
		newName = fmt.Sprintf("%s.%s", inputName, defaultDecompressedSuffix)
	}
	return newName
}
