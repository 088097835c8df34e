// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"io"
)

// limitErrorReader reads from r until limit bytes have been consumed. It fails
// with [ErrReadLimitExceeded] only if r holds more data than that, so an input
// of exactly limit bytes is read in full. A negative limit disables the check.
type limitErrorReader struct {
	r     io.Reader
	limit int64
	read  int64
}

func newLimitErrorReader(r io.Reader, limit int64) *limitErrorReader {
	return &limitErrorReader{r: r, limit: limit}
}

func (l *limitErrorReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	want := int64(len(p))
	if l.limit >= 0 && l.limit-l.read < want {
		want = l.limit - l.read
	}

	// limit reached, probe for one more byte
	if want == 0 {
		var probe [1]byte
		n, err := io.ReadFull(l.r, probe[:])
		switch {
		case n > 0:
			return 0, ErrReadLimitExceeded
		case err == io.EOF || err == io.ErrUnexpectedEOF:
			return 0, io.EOF
		default:
			return 0, err
		}
	}

	n, err := l.r.Read(p[:want])
	l.read += int64(n)
	return n, err
}

// ReadBytes returns how many bytes have been read from the underlying reader
func (l *limitErrorReader) ReadBytes() int64 {
	return l.read
}

// limitErrorWriter forwards at most limit bytes to w. The write that crosses
// the limit is truncated and reports [ErrMaxExtractionSizeExceeded].
type limitErrorWriter struct {
	w       io.Writer
	limit   int64
	written int64
}

func (l *limitErrorWriter) Write(p []byte) (int, error) {
	remaining := l.limit - l.written
	if len(p) > 0 && remaining <= 0 {
		return 0, ErrMaxExtractionSizeExceeded
	}

	truncated := int64(len(p)) > remaining
	if truncated {
		p = p[:remaining]
	}

	n, err := l.w.Write(p)
	l.written += int64(n)
	if err == nil && truncated {
		err = ErrMaxExtractionSizeExceeded
	}
	return n, err
}

// limitWriter returns a writer that fails once more than maxSize bytes are
// written. A negative maxSize disables the limit.
func limitWriter(w io.Writer, maxSize int64) io.Writer {
	if maxSize < 0 {
		return w
	}
	return &limitErrorWriter{w: w, limit: maxSize}
}
