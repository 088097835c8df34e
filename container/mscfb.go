// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"
)

// magicBytesOLE is the signature of compound file binary (OLE2) files.
// reference: [MS-CFB] 2.2 Compound File Header
var magicBytesOLE = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// IsOLE checks if header starts with the compound file signature.
func IsOLE(header []byte) bool {
	return bytes.HasPrefix(header, magicBytesOLE)
}

// Mscfb is a [Parser] for OLE2 compound files backed by
// github.com/richardlehane/mscfb.
type Mscfb struct{}

// NewMscfb returns a new [Mscfb] parser.
func NewMscfb() *Mscfb {
	return &Mscfb{}
}

// IsValid reports whether path carries the compound file signature and its
// header, FAT and directory can be read.
func (m *Mscfb) IsValid(path string) bool {
	err := m.walk(path, func(*mscfb.File) (bool, error) {
		return false, nil
	})
	return err == nil
}

// ListStreams returns the streams of the compound file at path in directory
// order.
func (m *Mscfb) ListStreams(path string) ([]Stream, error) {
	var streams []Stream
	err := m.walk(path, func(entry *mscfb.File) (bool, error) {
		if entry.FileInfo().IsDir() {
			return true, nil
		}
		streams = append(streams, Stream{
			Container: path,
			Name:      streamName(entry),
			Index:     len(streams),
			Size:      entry.Size,
		})
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return streams, nil
}

// ReadStream reopens the container of s and returns the content of the stream
// at position s.Index.
func (m *Mscfb) ReadStream(s Stream) ([]byte, error) {
	var (
		data  []byte
		index int
		found bool
	)
	err := m.walk(s.Container, func(entry *mscfb.File) (bool, error) {
		if entry.FileInfo().IsDir() {
			return true, nil
		}
		if index != s.Index {
			index++
			return true, nil
		}
		if name := streamName(entry); name != s.Name {
			return false, fmt.Errorf("stream %d is %q, expected %q", s.Index, name, s.Name)
		}
		var err error
		if data, err = io.ReadAll(entry); err != nil {
			return false, fmt.Errorf("cannot read stream %q: %w", s.Name, err)
		}
		found = true
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("stream %q not found", s.Name)
	}
	return data, nil
}

// Properties decodes all property set streams of the compound file at path,
// e.g. \x05SummaryInformation, with github.com/richardlehane/msoleps.
func (m *Mscfb) Properties(path string) ([]Property, error) {
	var props []Property
	ps := msoleps.New()
	err := m.walk(path, func(entry *mscfb.File) (bool, error) {
		if entry.FileInfo().IsDir() || !msoleps.IsMSOLEPS(entry.Initial) {
			return true, nil
		}
		name := streamName(entry)
		if err := ps.Reset(entry); err != nil {
			return false, fmt.Errorf("cannot decode property set %q: %w", name, err)
		}
		for _, p := range ps.Property {
			props = append(props, Property{
				Stream: strings.TrimLeft(name, "\x05"),
				Name:   p.Name,
				Type:   p.Type(),
				Value:  p.String(),
			})
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return props, nil
}

// walk opens the compound file at path and calls fn for every directory entry
// until fn returns false or an error. The file is closed before walk returns.
func (m *Mscfb) walk(path string, fn func(*mscfb.File) (bool, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, len(magicBytesOLE))
	if _, err := io.ReadFull(f, header); err != nil || !IsOLE(header) {
		return fmt.Errorf("%s: missing compound file signature", path)
	}

	doc, err := mscfb.New(f)
	if err != nil {
		return fmt.Errorf("cannot read compound file: %w", err)
	}

	for {
		entry, err := doc.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("cannot read directory entry: %w", err)
		}
		next, err := fn(entry)
		if err != nil {
			return err
		}
		if !next {
			return nil
		}
	}
}

// streamName joins the storage path and the name of entry.
func streamName(entry *mscfb.File) string {
	if len(entry.Path) == 0 {
		return entry.Name
	}
	return strings.Join(append(append([]string{}, entry.Path...), entry.Name), "/")
}
