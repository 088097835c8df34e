// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/hashicorp/go-filesig/classifier"
)

// init calculates the maximum header length
func init() {
	for _, ex := range availableExtractors {
		needs := ex.Offset
		for _, mb := range ex.MagicBytes {
			if len(mb)+ex.Offset > needs {
				needs = len(mb) + ex.Offset
			}
		}
		if needs > maxHeaderLength {
			maxHeaderLength = needs
		}
	}
}

// errNothingToExtract is returned by an extractFunc if the file was read
// successfully but holds no payload.
var errNothingToExtract = errors.New("nothing to extract")

// extractFunc reads the file at path and returns one payload and the name of
// the entry it was taken from.
type extractFunc func(ctx context.Context, path string, cfg *Config, td *TelemetryData) ([]byte, string, error)

// headerCheck is a function that checks if the given header matches the expected magic bytes.
type headerCheck func([]byte) bool

type availableExtractor struct {
	Strategy    Strategy
	Extract     extractFunc
	HeaderCheck headerCheck
	MagicBytes  [][]byte
	Offset      int
}

var (
	extractorContainer = availableExtractor{
		Strategy: StrategyContainerStream,
		Extract:  extractContainerStream,
	}
	extractorWholeFile = availableExtractor{
		Strategy: StrategyWholeFile,
		Extract:  extractWholeFile,
	}

	extractorBrotli = decompressExtractor(codecBrotli)
	extractorBzip2  = decompressExtractor(codecBzip2)
	extractorGZip   = decompressExtractor(codecGZip)
	extractorLZ4    = decompressExtractor(codecLZ4)
	extractorSnappy = decompressExtractor(codecSnappy)
	extractorXz     = decompressExtractor(codecXz)
	extractorZlib   = decompressExtractor(codecZlib)
	extractorZstd   = decompressExtractor(codecZstd)

	extractor7zip = availableExtractor{
		Strategy:    StrategyArchiveEntry,
		Extract:     extract7Zip,
		HeaderCheck: is7zip,
		MagicBytes:  magicBytes7zip,
	}
	extractorRar = availableExtractor{
		Strategy:    StrategyArchiveEntry,
		Extract:     extractRar,
		HeaderCheck: isRar,
		MagicBytes:  magicBytesRar,
	}
	extractorTar = availableExtractor{
		Strategy:    StrategyArchiveEntry,
		Extract:     extractTar,
		HeaderCheck: isTar,
		MagicBytes:  magicBytesTar,
		Offset:      offsetTar,
	}
	extractorZip = availableExtractor{
		Strategy:    StrategyArchiveEntry,
		Extract:     extractZip,
		HeaderCheck: isZip,
		MagicBytes:  magicBytesZip,
	}
)

// availableExtractors is the closed dispatch table. Keys are normalized labels:
// MIME types as reported by the classifier and short names that are convenient
// as signature table labels.
var availableExtractors = map[string]availableExtractor{
	// compound files
	"application/x-ole-storage": extractorContainer,
	"ole":                       extractorContainer,
	"cfb":                       extractorContainer,
	"doc":                       extractorContainer,
	"xls":                       extractorContainer,
	"ppt":                       extractorContainer,
	"msi":                       extractorContainer,

	// raw images
	"image/jpeg": extractorWholeFile,
	"jpeg":       extractorWholeFile,
	"jpg":        extractorWholeFile,
	"image/png":  extractorWholeFile,
	"png":        extractorWholeFile,
	"image/gif":  extractorWholeFile,
	"gif":        extractorWholeFile,
	"image/bmp":  extractorWholeFile,
	"bmp":        extractorWholeFile,
	"image/tiff": extractorWholeFile,
	"tiff":       extractorWholeFile,
	"image/webp": extractorWholeFile,
	"webp":       extractorWholeFile,

	// compressed streams
	"application/x-brotli":        extractorBrotli,
	"br":                          extractorBrotli,
	"application/x-bzip2":         extractorBzip2,
	"bz2":                         extractorBzip2,
	"bzip2":                       extractorBzip2,
	"application/gzip":            extractorGZip,
	"application/x-gzip":          extractorGZip,
	"gz":                          extractorGZip,
	"gzip":                        extractorGZip,
	"application/x-lz4":           extractorLZ4,
	"lz4":                         extractorLZ4,
	"application/x-snappy-framed": extractorSnappy,
	"sz":                          extractorSnappy,
	"snappy":                      extractorSnappy,
	"application/x-xz":            extractorXz,
	"xz":                          extractorXz,
	"application/zlib":            extractorZlib,
	"zz":                          extractorZlib,
	"zlib":                        extractorZlib,
	"application/zstd":            extractorZstd,
	"zst":                         extractorZstd,
	"zstd":                        extractorZstd,

	// archives
	"application/x-7z-compressed":  extractor7zip,
	fileExtension7zip:              extractor7zip,
	"application/x-rar-compressed": extractorRar,
	"application/vnd.rar":          extractorRar,
	fileExtensionRar:               extractorRar,
	"application/x-tar":            extractorTar,
	fileExtensionTar:               extractorTar,
	"application/zip":              extractorZip,
	fileExtensionZip:               extractorZip,
}

// maxHeaderLength is the maximum header length of all extractors
var maxHeaderLength int

// normalizeLabel lower-cases label, trims surrounding space and removes MIME
// parameters, e.g. "Text/Plain; charset=utf-8" becomes "text/plain".
func normalizeLabel(label string) string {
	if i := strings.IndexByte(label, ';'); i >= 0 {
		label = label[:i]
	}
	return strings.ToLower(strings.TrimSpace(label))
}

// findExtractor looks up label in the dispatch table. If there is no exact
// match, the parents of a known MIME type are tried, e.g. application/msword
// resolves to the extractor of application/x-ole-storage. The matched key is
// returned along with the extractor.
func findExtractor(label string) (availableExtractor, string, bool) {
	key := normalizeLabel(label)
	if key == "" {
		return availableExtractor{}, "", false
	}
	if ex, ok := availableExtractors[key]; ok {
		return ex, key, true
	}
	for _, parent := range classifier.Lineage(key) {
		if ex, ok := availableExtractors[parent]; ok {
			return ex, parent, true
		}
	}
	return availableExtractor{}, "", false
}

// matchesMagicBytes checks if the bytes in data are equal to magicBytes after a given offset
func matchesMagicBytes(data []byte, offset int, magicBytes [][]byte) bool {
	// check all possible magic bytes until match is found
	for _, mb := range magicBytes {
		// check if header is long enough
		if offset+len(mb) > len(data) {
			continue
		}

		// check for byte match
		if bytes.Equal(mb, data[offset:offset+len(mb)]) {
			return true
		}
	}

	// no match found
	return false
}
