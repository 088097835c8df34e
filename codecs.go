// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// codecBrotli has no magic bytes, brotli streams are only recognized by label.
var codecBrotli = codec{
	ext: "br",
	open: func(src io.Reader) (io.Reader, error) {
		return brotli.NewReader(src), nil
	},
}

// reference: https://en.wikipedia.org/wiki/Bzip2 // https://github.com/dsnet/compress/blob/master/doc/bzip2-format.pdf
var codecBzip2 = codec{
	ext: "bz2",
	magic: [][]byte{
		[]byte("BZh1"),
		[]byte("BZh2"),
		[]byte("BZh3"),
		[]byte("BZh4"),
		[]byte("BZh5"),
		[]byte("BZh6"),
		[]byte("BZh7"),
		[]byte("BZh8"),
		[]byte("BZh9"),
	},
	open: func(src io.Reader) (io.Reader, error) {
		return bzip2.NewReader(src), nil
	},
}

// reference: https://www.ietf.org/rfc/rfc1952.txt
var codecGZip = codec{
	ext:   "gz",
	magic: [][]byte{{0x1f, 0x8b}},
	open: func(src io.Reader) (io.Reader, error) {
		return gzip.NewReader(src)
	},
}

// reference: https://android.googlesource.com/platform/external/lz4/+/HEAD/doc/lz4_Frame_format.md
var codecLZ4 = codec{
	ext:   "lz4",
	magic: [][]byte{{0x04, 0x22, 0x4D, 0x18}},
	open: func(src io.Reader) (io.Reader, error) {
		return lz4.NewReader(src), nil
	},
}

// snappy framing format, the stream identifier chunk is the magic
var codecSnappy = codec{
	ext:   "sz",
	magic: [][]byte{append([]byte{0xff, 0x06, 0x00, 0x00}, []byte("sNaPpY")...)},
	open: func(src io.Reader) (io.Reader, error) {
		return snappy.NewReader(src), nil
	},
}

// reference: https://tukaani.org/xz/xz-file-format-1.0.4.txt
var codecXz = codec{
	ext:   "xz",
	magic: [][]byte{{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}},
	open: func(src io.Reader) (io.Reader, error) {
		return xz.NewReader(src)
	},
}

// reference: https://www.ietf.org/rfc/rfc1950.txt
var codecZlib = codec{
	ext: "zz",
	magic: [][]byte{
		{0x78, 0x01},
		{0x78, 0x5e},
		{0x78, 0x9c},
		{0x78, 0xda},
		{0x78, 0x20},
		{0x78, 0x7d},
		{0x78, 0xbb},
		{0x78, 0xf9},
	},
	open: func(src io.Reader) (io.Reader, error) {
		return zlib.NewReader(src)
	},
}

// reference: https://www.rfc-editor.org/rfc/rfc8878.html
var codecZstd = codec{
	ext:   "zst",
	magic: [][]byte{{0x28, 0xb5, 0x2f, 0xfd}},
	open: func(src io.Reader) (io.Reader, error) {
		dec, err := zstd.NewReader(src)
		if err != nil {
			return nil, err
		}
		// the decoder releases its goroutines on Close
		return dec.IOReadCloser(), nil
	},
}
