// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package container provides access to the named streams of compound
// container files, such as OLE2 compound documents (legacy .doc, .xls, .ppt
// and .msi files).
//
// The package only reads the container directory and single streams. It does
// not interpret stream content apart from OLE property sets.
package container

// Stream identifies one named stream inside a container file.
type Stream struct {
	// Container is the path of the container file.
	Container string

	// Name is the slash separated path of the stream inside the container.
	Name string

	// Index is the position of the stream in directory order.
	Index int

	// Size is the size of the stream in bytes.
	Size int64
}

// Parser reads the directory of a container file. Implementations open the
// file on every call and release it before returning.
type Parser interface {
	// IsValid reports whether path is a well-formed container.
	IsValid(path string) bool

	// ListStreams returns the streams of the container at path in directory
	// order. Storages (directories) are not included.
	ListStreams(path string) ([]Stream, error)

	// ReadStream returns the content of s.
	ReadStream(s Stream) ([]byte, error)
}

// Property is one decoded entry of an OLE property set stream.
type Property struct {
	Stream string
	Name   string
	Type   string
	Value  string
}

// PropertyReader is implemented by parsers that can decode property set
// streams, such as [Mscfb].
type PropertyReader interface {
	Properties(path string) ([]Property, error)
}
