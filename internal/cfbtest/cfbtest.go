// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package cfbtest builds minimal compound file binary (OLE2) documents for
// tests.
package cfbtest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"
)

const (
	sectorSize      = 512
	dirEntrySize    = 128
	miniStreamLimit = 4096

	freeSect   = 0xFFFFFFFF
	endOfChain = 0xFFFFFFFE
	fatSect    = 0xFFFFFFFD
	noStream   = 0xFFFFFFFF

	typeStream = 2
	typeRoot   = 5
)

// MinStreamSize is the smallest stream size the builder accepts. Smaller
// streams would live in the mini stream, which the builder does not write.
const MinStreamSize = miniStreamLimit

// Stream is a named stream for [Build].
type Stream struct {
	Name string
	Data []byte
}

// Build returns a version 3 compound file that holds streams as direct
// children of the root storage, in the given order. Every stream must be at
// least [MinStreamSize] bytes.
func Build(t testing.TB, streams ...Stream) []byte {
	t.Helper()

	entries := len(streams) + 1
	dirSectors := (entries*dirEntrySize + sectorSize - 1) / sectorSize

	dataSectors := 0
	for _, s := range streams {
		if len(s.Data) < MinStreamSize {
			t.Fatalf("stream %q is smaller than %d bytes", s.Name, MinStreamSize)
		}
		dataSectors += sectorsFor(len(s.Data))
	}

	total := 1 + dirSectors + dataSectors
	if total > sectorSize/4 {
		t.Fatalf("document needs %d sectors, only %d are supported", total, sectorSize/4)
	}

	out := make([]byte, sectorSize*(total+1))
	le := binary.LittleEndian

	// header
	copy(out, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	le.PutUint16(out[0x18:], 0x003E)
	le.PutUint16(out[0x1A:], 0x0003)
	le.PutUint16(out[0x1C:], 0xFFFE)
	le.PutUint16(out[0x1E:], 0x0009)
	le.PutUint16(out[0x20:], 0x0006)
	le.PutUint32(out[0x2C:], 1) // FAT sectors
	le.PutUint32(out[0x30:], 1) // first directory sector
	le.PutUint32(out[0x38:], miniStreamLimit)
	le.PutUint32(out[0x3C:], endOfChain)
	le.PutUint32(out[0x44:], endOfChain)
	le.PutUint32(out[0x4C:], 0) // FAT lives in sector 0
	for i := 1; i < 109; i++ {
		le.PutUint32(out[0x4C+4*i:], freeSect)
	}

	// FAT
	fat := make([]uint32, sectorSize/4)
	for i := range fat {
		fat[i] = freeSect
	}
	fat[0] = fatSect
	chain(fat, 1, dirSectors)

	next := 1 + dirSectors
	starts := make([]int, len(streams))
	for i, s := range streams {
		n := sectorsFor(len(s.Data))
		starts[i] = next
		chain(fat, next, n)
		copy(out[sectorOffset(next):], s.Data)
		next += n
	}
	for i, v := range fat {
		le.PutUint32(out[sectorOffset(0)+4*i:], v)
	}

	// directory
	dir := out[sectorOffset(1):]
	for i := 0; i < dirSectors*sectorSize/dirEntrySize; i++ {
		e := dir[i*dirEntrySize : (i+1)*dirEntrySize]
		le.PutUint32(e[0x44:], noStream)
		le.PutUint32(e[0x48:], noStream)
		le.PutUint32(e[0x4C:], noStream)
	}

	root := dir[:dirEntrySize]
	putName(root, "Root Entry")
	root[0x42] = typeRoot
	root[0x43] = 1
	le.PutUint32(root[0x74:], endOfChain)
	if len(streams) > 0 {
		le.PutUint32(root[0x4C:], 1)
	}

	for i, s := range streams {
		e := dir[(i+1)*dirEntrySize : (i+2)*dirEntrySize]
		putName(e, s.Name)
		e[0x42] = typeStream
		e[0x43] = 1
		if i+1 < len(streams) {
			le.PutUint32(e[0x48:], uint32(i+2))
		}
		le.PutUint32(e[0x74:], uint32(starts[i]))
		le.PutUint64(e[0x78:], uint64(len(s.Data)))
	}

	return out
}

// WriteFile builds a compound file and writes it to name inside a temporary
// directory of t. It returns the path of the file.
func WriteFile(t testing.TB, name string, streams ...Stream) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, Build(t, streams...), 0o600); err != nil {
		t.Fatalf("cannot write compound file: %s", err)
	}
	return path
}

func sectorsFor(size int) int {
	return (size + sectorSize - 1) / sectorSize
}

func sectorOffset(sector int) int {
	return (sector + 1) * sectorSize
}

// chain links n sectors starting at first into one FAT chain.
func chain(fat []uint32, first, n int) {
	for i := 0; i < n-1; i++ {
		fat[first+i] = uint32(first + i + 1)
	}
	fat[first+n-1] = endOfChain
}

func putName(entry []byte, name string) {
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		binary.LittleEndian.PutUint16(entry[2*i:], u)
	}
	binary.LittleEndian.PutUint16(entry[0x40:], uint16(2*(len(units)+1)))
}
