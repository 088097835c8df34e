// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package filesig identifies the type of a file from its leading bytes and
// extracts one embedded payload from recognized container and stream formats.
//
// Identification is done by a [Matcher]. With a signature table (see the
// signatures package) the first label whose byte pattern is a prefix of the
// file wins. Without a table the file prefix is handed to a heuristic
// classifier, by default the MIME detection of the classifier package.
//
// Extraction is done by a [Dispatcher], which routes a type label through a
// closed table of extraction strategies and returns a [Result]:
//
//   - OLE2 compound files yield the first named stream in directory order. This
//     is a simplification, the other streams are not looked at.
//   - JPEG and other raw image formats yield the whole file unmodified.
//   - Compressed streams (gzip, bzip2, xz, zstd, lz4, snappy, zlib, brotli)
//     yield the decompressed content.
//   - Archives (zip, tar, 7z, rar) yield their first regular file.
//
// Labels without a strategy produce an unsupported result, not an error.
//
// Configuration is done with [Config] in an option pattern style. Telemetry
// data is captured for every call and handed to the configured [TelemetryHook].
package filesig
