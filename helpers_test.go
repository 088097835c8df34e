// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"os"
	"path/filepath"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// compressFunc is a function that compresses a byte slice
type compressFunc func(*testing.T, []byte) []byte

// writeTestFile writes data to name in a temporary directory and returns the path
func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("cannot write test file: %s", err)
	}
	return path
}

func compressGzip(t *testing.T, data []byte) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to gzip writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing gzip writer: %v", err)
	}
	return buf.Bytes()
}

func compressZlib(t *testing.T, data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to zlib writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing zlib writer: %v", err)
	}
	return buf.Bytes()
}

func compressBzip2(t *testing.T, data []byte) []byte {
	var buf bytes.Buffer
	w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
	if err != nil {
		t.Fatalf("error creating bzip2 writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to bzip2 writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing bzip2 writer: %v", err)
	}
	return buf.Bytes()
}

func compressXz(t *testing.T, data []byte) []byte {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("error creating xz writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to xz writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing xz writer: %v", err)
	}
	return buf.Bytes()
}

func compressZstd(t *testing.T, data []byte) []byte {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		t.Fatalf("error creating zstd writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to zstd writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing zstd writer: %v", err)
	}
	return buf.Bytes()
}

func compressLz4(t *testing.T, data []byte) []byte {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to lz4 writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing lz4 writer: %v", err)
	}
	return buf.Bytes()
}

func compressSnappy(t *testing.T, data []byte) []byte {
	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to snappy writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing snappy writer: %v", err)
	}
	return buf.Bytes()
}

func compressBrotli(t *testing.T, data []byte) []byte {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to brotli writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing brotli writer: %v", err)
	}
	return buf.Bytes()
}

// archiveContent describes one entry of a test archive
type archiveContent struct {
	Name    string
	Content []byte
	Dir     bool
}

func packTar(t *testing.T, entries []archiveContent) []byte {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.Name, Mode: 0o640, Typeflag: tar.TypeReg, Size: int64(len(e.Content))}
		if e.Dir {
			hdr = &tar.Header{Name: e.Name, Mode: 0o750, Typeflag: tar.TypeDir}
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("error writing tar header: %v", err)
		}
		if !e.Dir {
			if _, err := tw.Write(e.Content); err != nil {
				t.Fatalf("error writing tar content: %v", err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("error closing tar writer: %v", err)
	}
	return buf.Bytes()
}

func packZip(t *testing.T, entries []archiveContent) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		name := e.Name
		if e.Dir {
			name += "/"
		}
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("error creating zip entry: %v", err)
		}
		if !e.Dir {
			if _, err := w.Write(e.Content); err != nil {
				t.Fatalf("error writing zip content: %v", err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("error closing zip writer: %v", err)
	}
	return buf.Bytes()
}
