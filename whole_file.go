// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"context"
	"fmt"
	"io"
	"os"
)

// extractWholeFile returns the content of path unmodified. The format is not
// validated.
func extractWholeFile(ctx context.Context, path string, cfg *Config, td *TelemetryData) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	limitedReader := newLimitErrorReader(f, cfg.MaxInputSize())
	defer captureInputSize(td, limitedReader)

	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("cannot read file: %w", err)
	}
	if err := cfg.CheckExtractionSize(int64(len(data))); err != nil {
		return nil, "", err
	}
	return data, "", nil
}
