// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"fmt"
	"io"
)

// readPrefix returns up to size leading bytes of r. A reader that ends before
// size bytes is not an error, the returned prefix is just shorter.
func readPrefix(r io.Reader, size int) ([]byte, error) {
	buf := make([]byte, size)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}
	return buf[:n], nil
}
