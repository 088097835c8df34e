// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/hashicorp/go-filesig"
	"github.com/hashicorp/go-filesig/container"
	"github.com/hashicorp/go-filesig/internal/cfbtest"
	"github.com/hashicorp/go-filesig/internal/mocks"
)

func TestExtractUnsupported(t *testing.T) {
	path := writeTestFile(t, "input", []byte("content"))
	d := filesig.NewDispatcher(nil)

	for _, label := range []string{"", "text/plain", "application/x-unknown", "A", "application/pdf"} {
		t.Run(fmt.Sprintf("label %q", label), func(t *testing.T) {
			res := d.Extract(context.Background(), path, label)
			if res.Kind != filesig.KindUnsupported {
				t.Fatalf("Extract() kind = %s, want unsupported", res.Kind)
			}
			if res.Label != label {
				t.Errorf("Extract() label = %q, want %q", res.Label, label)
			}
			if !errors.Is(res.Err, filesig.ErrUnsupported) {
				t.Errorf("Extract() err = %v, want %v", res.Err, filesig.ErrUnsupported)
			}
			if d.Supports(label) {
				t.Errorf("Supports(%q) = true, want false", label)
			}
		})
	}

	// missing files are not read for unsupported labels
	res := d.Extract(context.Background(), filepath.Join(t.TempDir(), "missing"), "text/plain")
	if res.Kind != filesig.KindUnsupported {
		t.Errorf("Extract() kind = %s, want unsupported", res.Kind)
	}
}

func TestExtractWholeFile(t *testing.T) {
	data := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x00, 0x10, 0xFF}, 1000)...)

	tests := []struct {
		name  string
		label string
		data  []byte
	}{
		{name: "jpeg mime type", label: "image/jpeg", data: data},
		{name: "jpeg short label", label: "jpeg", data: data},
		{name: "label with parameters and case", label: " Image/JPEG; q=1 ", data: data},
		{name: "jpeg label on non-jpeg data", label: "jpg", data: []byte("not an image at all")},
		{name: "png", label: "image/png", data: []byte("\x89PNG\r\n\x1a\n")},
		{name: "empty file", label: "image/jpeg", data: []byte{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeTestFile(t, "image", test.data)

			res := filesig.NewDispatcher(nil).Extract(context.Background(), path, test.label)
			if res.Kind != filesig.KindPayload {
				t.Fatalf("Extract() kind = %s, want payload (err: %v)", res.Kind, res.Err)
			}
			if res.Strategy != filesig.StrategyWholeFile {
				t.Errorf("Extract() strategy = %s, want %s", res.Strategy, filesig.StrategyWholeFile)
			}
			if !bytes.Equal(res.Payload, test.data) {
				t.Errorf("Extract() payload differs from file content")
			}
			if res.Entry != "" {
				t.Errorf("Extract() entry = %q, want empty", res.Entry)
			}
		})
	}
}

func TestExtractWholeFileFailures(t *testing.T) {
	ctx := context.Background()

	res := filesig.NewDispatcher(nil).Extract(ctx, filepath.Join(t.TempDir(), "missing.jpg"), "image/jpeg")
	if res.Kind != filesig.KindFailure || !errors.Is(res.Err, filesig.ErrExtraction) {
		t.Errorf("Extract() = %s, want failure wrapping %v", res, filesig.ErrExtraction)
	}
	if res.Reason() == "" {
		t.Errorf("Reason() is empty for a failure")
	}

	path := writeTestFile(t, "image.jpg", bytes.Repeat([]byte{0xFF}, 100))
	res = filesig.NewDispatcher(filesig.NewConfig(filesig.WithMaxInputSize(50))).Extract(ctx, path, "jpg")
	if res.Kind != filesig.KindFailure || !errors.Is(res.Err, filesig.ErrReadLimitExceeded) {
		t.Errorf("Extract() = %s, want failure wrapping %v", res, filesig.ErrReadLimitExceeded)
	}

	// negative limits disable the checks
	for _, limit := range []int64{-1, -2} {
		cfg := filesig.NewConfig(filesig.WithMaxInputSize(limit), filesig.WithMaxExtractionSize(limit))
		res = filesig.NewDispatcher(cfg).Extract(ctx, path, "jpg")
		if res.Kind != filesig.KindPayload || len(res.Payload) != 100 {
			t.Errorf("Extract() with limit %d = %s, want payload of 100 bytes", limit, res)
		}
	}

	// a file of exactly the maximum input size is accepted
	res = filesig.NewDispatcher(filesig.NewConfig(filesig.WithMaxInputSize(100))).Extract(ctx, path, "jpg")
	if res.Kind != filesig.KindPayload || len(res.Payload) != 100 {
		t.Errorf("Extract() = %s, want payload of 100 bytes", res)
	}
}

func TestExtractContainerStream(t *testing.T) {
	ctx := context.Background()
	first := bytes.Repeat([]byte("first stream "), 400)
	second := bytes.Repeat([]byte("second stream "), 400)

	path := cfbtest.WriteFile(t, "report.doc",
		cfbtest.Stream{Name: "WordDocument", Data: first},
		cfbtest.Stream{Name: "Data", Data: second},
	)

	for _, label := range []string{"application/x-ole-storage", "doc", "application/msword", "application/vnd.ms-excel"} {
		t.Run(label, func(t *testing.T) {
			res := filesig.NewDispatcher(nil).Extract(ctx, path, label)
			if res.Kind != filesig.KindPayload {
				t.Fatalf("Extract() kind = %s, want payload (err: %v)", res.Kind, res.Err)
			}
			if res.Strategy != filesig.StrategyContainerStream {
				t.Errorf("Extract() strategy = %s, want %s", res.Strategy, filesig.StrategyContainerStream)
			}
			if res.Entry != "WordDocument" {
				t.Errorf("Extract() entry = %q, want %q", res.Entry, "WordDocument")
			}
			if !bytes.Equal(res.Payload, first) {
				t.Errorf("Extract() payload is not the first stream")
			}
		})
	}
}

func TestExtractContainerWithoutStreams(t *testing.T) {
	path := cfbtest.WriteFile(t, "empty.doc")

	res := filesig.NewDispatcher(nil).Extract(context.Background(), path, "ole")
	if res.Kind != filesig.KindEmpty {
		t.Fatalf("Extract() kind = %s, want empty (err: %v)", res.Kind, res.Err)
	}
	if res.Payload != nil || res.Err != nil {
		t.Errorf("Extract() = %+v, want no payload and no error", res)
	}
}

func TestExtractInvalidContainer(t *testing.T) {
	path := writeTestFile(t, "fake.doc", []byte("this is not a compound file"))

	res := filesig.NewDispatcher(nil).Extract(context.Background(), path, "doc")
	if res.Kind != filesig.KindFailure {
		t.Fatalf("Extract() kind = %s, want failure", res.Kind)
	}
	if !errors.Is(res.Err, filesig.ErrContainerInvalid) {
		t.Errorf("Extract() err = %v, want %v", res.Err, filesig.ErrContainerInvalid)
	}
	if res.Reason() != "not a valid container" {
		t.Errorf("Reason() = %q, want %q", res.Reason(), "not a valid container")
	}
}

func TestExtractContainerWithParser(t *testing.T) {
	ctx := context.Background()
	path := writeTestFile(t, "container", []byte("bytes are not inspected"))

	tests := []struct {
		name      string
		prepare   func(p *mocks.MockParser)
		wantKind  filesig.Kind
		wantEntry string
		want      []byte
		wantErr   error
	}{
		{
			name: "zero streams",
			prepare: func(p *mocks.MockParser) {
				p.EXPECT().IsValid(path).Return(true)
				p.EXPECT().ListStreams(path).Return(nil, nil)
			},
			wantKind: filesig.KindEmpty,
		},
		{
			name: "unnamed streams are skipped",
			prepare: func(p *mocks.MockParser) {
				streams := []container.Stream{
					{Container: path, Name: "", Index: 0},
					{Container: path, Name: "Named", Index: 1},
				}
				p.EXPECT().IsValid(path).Return(true)
				p.EXPECT().ListStreams(path).Return(streams, nil)
				p.EXPECT().ReadStream(streams[1]).Return([]byte("payload"), nil)
			},
			wantKind:  filesig.KindPayload,
			wantEntry: "Named",
			want:      []byte("payload"),
		},
		{
			name: "only unnamed streams",
			prepare: func(p *mocks.MockParser) {
				p.EXPECT().IsValid(path).Return(true)
				p.EXPECT().ListStreams(path).Return([]container.Stream{{Container: path}}, nil)
			},
			wantKind: filesig.KindEmpty,
		},
		{
			name: "empty first stream",
			prepare: func(p *mocks.MockParser) {
				p.EXPECT().IsValid(path).Return(true)
				p.EXPECT().ListStreams(path).Return([]container.Stream{{Container: path, Name: "Zero"}}, nil)
				p.EXPECT().ReadStream(gomock.Any()).Return([]byte{}, nil)
			},
			wantKind:  filesig.KindPayload,
			wantEntry: "Zero",
			want:      []byte{},
		},
		{
			name: "invalid container",
			prepare: func(p *mocks.MockParser) {
				p.EXPECT().IsValid(path).Return(false)
			},
			wantKind: filesig.KindFailure,
			wantErr:  filesig.ErrContainerInvalid,
		},
		{
			name: "listing fails",
			prepare: func(p *mocks.MockParser) {
				p.EXPECT().IsValid(path).Return(true)
				p.EXPECT().ListStreams(path).Return(nil, fmt.Errorf("broken directory"))
			},
			wantKind: filesig.KindFailure,
			wantErr:  filesig.ErrExtraction,
		},
		{
			name: "reading fails",
			prepare: func(p *mocks.MockParser) {
				p.EXPECT().IsValid(path).Return(true)
				p.EXPECT().ListStreams(path).Return([]container.Stream{{Container: path, Name: "S"}}, nil)
				p.EXPECT().ReadStream(gomock.Any()).Return(nil, fmt.Errorf("broken sector chain"))
			},
			wantKind: filesig.KindFailure,
			wantErr:  filesig.ErrExtraction,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			p := mocks.NewMockParser(ctrl)
			test.prepare(p)

			d := filesig.NewDispatcher(filesig.NewConfig(filesig.WithContainerParser(p)))
			res := d.Extract(ctx, path, "application/x-ole-storage")
			if res.Kind != test.wantKind {
				t.Fatalf("Extract() kind = %s, want %s (err: %v)", res.Kind, test.wantKind, res.Err)
			}
			if res.Entry != test.wantEntry {
				t.Errorf("Extract() entry = %q, want %q", res.Entry, test.wantEntry)
			}
			if test.wantKind == filesig.KindPayload && !bytes.Equal(res.Payload, test.want) {
				t.Errorf("Extract() payload = %q, want %q", res.Payload, test.want)
			}
			if !errors.Is(res.Err, test.wantErr) {
				t.Errorf("Extract() err = %v, want %v", res.Err, test.wantErr)
			}
		})
	}
}

func TestProperties(t *testing.T) {
	d := filesig.NewDispatcher(nil)

	props, err := d.Properties(cfbtest.WriteFile(t, "empty.doc"))
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}
	if len(props) != 0 {
		t.Errorf("Properties() = %v, want none", props)
	}

	_, err = d.Properties(writeTestFile(t, "plain.txt", []byte("plain")))
	if !errors.Is(err, filesig.ErrContainerInvalid) {
		t.Errorf("Properties() error = %v, want %v", err, filesig.ErrContainerInvalid)
	}

	// parsers without property support
	ctrl := gomock.NewController(t)
	d = filesig.NewDispatcher(filesig.NewConfig(filesig.WithContainerParser(mocks.NewMockParser(ctrl))))
	_, err = d.Properties("any")
	if !errors.Is(err, filesig.ErrUnsupported) {
		t.Errorf("Properties() error = %v, want %v", err, filesig.ErrUnsupported)
	}
}

func TestExtractTelemetry(t *testing.T) {
	var calls []*filesig.TelemetryData
	hook := func(ctx context.Context, d *filesig.TelemetryData) {
		calls = append(calls, d)
	}
	d := filesig.NewDispatcher(filesig.NewConfig(filesig.WithTelemetryHook(hook)))

	path := writeTestFile(t, "image.jpg", []byte{0xFF, 0xD8, 0xFF})
	d.Extract(context.Background(), path, "image/jpeg")
	d.Extract(context.Background(), path, "text/plain")

	if len(calls) != 2 {
		t.Fatalf("telemetry hook called %d times, want 2", len(calls))
	}
	if calls[0].Outcome != "payload" || calls[0].Strategy != "whole-file" || calls[0].PayloadSize != 3 || calls[0].InputSize != 3 {
		t.Errorf("unexpected telemetry data: %s", calls[0])
	}
	if calls[1].Outcome != "unsupported" || calls[1].Strategy != "none" || calls[1].LastError == nil {
		t.Errorf("unexpected telemetry data: %s", calls[1])
	}
}

func TestStrategyFor(t *testing.T) {
	d := filesig.NewDispatcher(nil)

	tests := map[string]filesig.Strategy{
		"application/x-ole-storage": filesig.StrategyContainerStream,
		"image/jpeg":                filesig.StrategyWholeFile,
		"application/gzip":          filesig.StrategyDecompress,
		"application/x-gzip":        filesig.StrategyDecompress,
		"application/zip":           filesig.StrategyArchiveEntry,
		"text/plain":                filesig.StrategyNone,
	}
	for label, want := range tests {
		if got := d.StrategyFor(label); got != want {
			t.Errorf("StrategyFor(%q) = %s, want %s", label, got, want)
		}
	}
}
