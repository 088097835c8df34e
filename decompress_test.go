// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-filesig"
)

func TestDecompress(t *testing.T) {
	ctx := context.Background()
	testData := []byte("Hello, World!")

	tests := []struct {
		name      string
		label     string
		fileName  string
		compress  compressFunc
		wantEntry string
	}{
		{name: "gzip", label: "application/gzip", fileName: "test.txt.gz", compress: compressGzip, wantEntry: "test.txt"},
		{name: "gzip short label", label: "gz", fileName: "test.gz", compress: compressGzip, wantEntry: "test"},
		{name: "zlib", label: "application/zlib", fileName: "test.zz", compress: compressZlib, wantEntry: "test"},
		{name: "bzip2", label: "application/x-bzip2", fileName: "test.bz2", compress: compressBzip2, wantEntry: "test"},
		{name: "xz", label: "application/x-xz", fileName: "test.xz", compress: compressXz, wantEntry: "test"},
		{name: "zstd", label: "application/zstd", fileName: "test.zst", compress: compressZstd, wantEntry: "test"},
		{name: "lz4", label: "lz4", fileName: "test.lz4", compress: compressLz4, wantEntry: "test"},
		{name: "snappy", label: "application/x-snappy-framed", fileName: "test.sz", compress: compressSnappy, wantEntry: "test"},
		{name: "brotli", label: "br", fileName: "test.br", compress: compressBrotli, wantEntry: "test"},
		{name: "name without extension", label: "gz", fileName: "payload", compress: compressGzip, wantEntry: "payload.decompressed"},
		{name: "upper case extension", label: "gz", fileName: "TEST.GZ", compress: compressGzip, wantEntry: "TEST"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeTestFile(t, test.fileName, test.compress(t, testData))

			res := filesig.NewDispatcher(filesig.NewConfig()).Extract(ctx, path, test.label)
			if res.Kind != filesig.KindPayload {
				t.Fatalf("Extract() kind = %s, want payload (err: %v)", res.Kind, res.Err)
			}
			if res.Strategy != filesig.StrategyDecompress {
				t.Errorf("Extract() strategy = %s, want %s", res.Strategy, filesig.StrategyDecompress)
			}
			if !bytes.Equal(res.Payload, testData) {
				t.Errorf("Extract() payload = %q, want %q", res.Payload, testData)
			}
			if res.Entry != test.wantEntry {
				t.Errorf("Extract() entry = %q, want %q", res.Entry, test.wantEntry)
			}
		})
	}
}

func TestDecompressEmptyStream(t *testing.T) {
	path := writeTestFile(t, "empty.gz", compressGzip(t, nil))

	res := filesig.NewDispatcher(nil).Extract(context.Background(), path, "gz")
	if res.Kind != filesig.KindPayload {
		t.Fatalf("Extract() kind = %s, want payload (err: %v)", res.Kind, res.Err)
	}
	if res.Payload == nil || len(res.Payload) != 0 {
		t.Errorf("Extract() payload = %v, want empty non-nil slice", res.Payload)
	}
}

func TestDecompressFailures(t *testing.T) {
	ctx := context.Background()
	testData := bytes.Repeat([]byte("Hello, World!"), 10)

	tests := []struct {
		name    string
		label   string
		data    []byte
		cfg     *filesig.Config
		wantErr error
	}{
		{
			name:    "plain text labeled as gzip",
			label:   "gz",
			data:    testData,
			cfg:     filesig.NewConfig(),
			wantErr: filesig.ErrExtraction,
		},
		{
			name:    "gzip header with broken body",
			label:   "gz",
			data:    []byte{0x1f, 0x8b, 0x08, 0x00, 0x01},
			cfg:     filesig.NewConfig(),
			wantErr: filesig.ErrExtraction,
		},
		{
			name:    "zstd magic with broken frame",
			label:   "zst",
			data:    []byte{0x28, 0xb5, 0x2f, 0xfd, 0xff, 0xff},
			cfg:     filesig.NewConfig(),
			wantErr: filesig.ErrExtraction,
		},
		{
			name:    "output exceeds maximum extraction size",
			label:   "gz",
			data:    compressGzip(t, testData),
			cfg:     filesig.NewConfig(filesig.WithMaxExtractionSize(10)),
			wantErr: filesig.ErrMaxExtractionSizeExceeded,
		},
		{
			name:    "input exceeds maximum input size",
			label:   "gz",
			data:    compressGzip(t, testData),
			cfg:     filesig.NewConfig(filesig.WithMaxInputSize(12)),
			wantErr: filesig.ErrReadLimitExceeded,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeTestFile(t, "input", test.data)

			res := filesig.NewDispatcher(test.cfg).Extract(ctx, path, test.label)
			if res.Kind != filesig.KindFailure {
				t.Fatalf("Extract() kind = %s, want failure", res.Kind)
			}
			if !errors.Is(res.Err, test.wantErr) {
				t.Errorf("Extract() err = %v, want %v", res.Err, test.wantErr)
			}
			if !errors.Is(res.Err, filesig.ErrExtraction) {
				t.Errorf("Extract() err = %v, want it to wrap %v", res.Err, filesig.ErrExtraction)
			}
			if res.Payload != nil {
				t.Errorf("Extract() payload = %v, want nil", res.Payload)
			}
		})
	}
}

func TestDecompressCanceledContext(t *testing.T) {
	path := writeTestFile(t, "test.gz", compressGzip(t, []byte("data")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := filesig.NewDispatcher(nil).Extract(ctx, path, "gz")
	if res.Kind != filesig.KindFailure {
		t.Fatalf("Extract() kind = %s, want failure", res.Kind)
	}
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("Extract() err = %v, want %v", res.Err, context.Canceled)
	}
}
