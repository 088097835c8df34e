// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"context"
	"fmt"
)

// extractContainerStream returns the first stream with a non-empty name of the
// container at path, in directory order. All other streams are ignored.
func extractContainerStream(ctx context.Context, path string, cfg *Config, td *TelemetryData) ([]byte, string, error) {
	p := cfg.ContainerParser()

	if !p.IsValid(path) {
		return nil, "", ErrContainerInvalid
	}

	streams, err := p.ListStreams(path)
	if err != nil {
		return nil, "", fmt.Errorf("cannot list streams: %w", err)
	}
	cfg.Logger().Debug("listed container streams", "path", path, "streams", len(streams))

	for _, s := range streams {
		if s.Name == "" {
			continue
		}

		// check if context is canceled
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		if err := cfg.CheckExtractionSize(s.Size); err != nil {
			return nil, "", err
		}

		data, err := p.ReadStream(s)
		if err != nil {
			return nil, "", fmt.Errorf("cannot read stream %q: %w", s.Name, err)
		}
		td.InputSize = int64(len(data))
		return data, s.Name, nil
	}

	return nil, "", errNothingToExtract
}
