// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package signatures

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a signature source.
type Format int

const (
	// FormatJSON is a JSON object mapping labels to lists of hex strings.
	FormatJSON Format = iota

	// FormatYAML is the same mapping written as YAML.
	FormatYAML
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	default:
		return "json"
	}
}

// FormatFromPath returns FormatYAML for .yaml and .yml files and FormatJSON
// for everything else.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// rawSignature is a decoded, not yet validated, source entry.
type rawSignature struct {
	label    string
	patterns []string
}

// Load reads the signature source at path and builds a [Table] from it. The
// format is chosen by [FormatFromPath]. The returned error matches
// [ErrSourceNotFound] if the file cannot be opened and [ErrSourceMalformed] if
// its content is not a valid signature source.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(ErrSourceNotFound, path)
		}
		return nil, errors.Wrapf(ErrSourceNotFound, "%s: %v", path, err)
	}

	t, err := Parse(data, FormatFromPath(path))
	if err != nil {
		var me *MalformedError
		if errors.As(err, &me) {
			me.Source = path
		}
		return nil, err
	}
	return t, nil
}

// Parse decodes data in the given format into a [Table]. Document order is
// kept and becomes the lookup order of the table.
func Parse(data []byte, format Format) (*Table, error) {
	var (
		raw []rawSignature
		err error
	)
	switch format {
	case FormatYAML:
		raw, err = decodeYAML(data)
	default:
		raw, err = decodeJSON(data)
	}
	if err != nil {
		return nil, err
	}
	return build(raw)
}

// decodeJSON validates data against the source schema and decodes the object
// members in document order. The token stream is used because decoding into a
// map loses the order.
func decodeJSON(data []byte) ([]rawSignature, error) {
	fieldErrors, err := validateSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &MalformedError{Cause: errors.Wrap(err, "cannot decode json")}
	}
	if len(fieldErrors) > 0 {
		return nil, &MalformedError{Errors: fieldErrors}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, &MalformedError{Cause: errors.New("expected a json object")}
	}

	var raw []rawSignature
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, &MalformedError{Cause: errors.Wrap(err, "cannot read label")}
		}
		label, ok := tok.(string)
		if !ok {
			return nil, &MalformedError{Cause: errors.Errorf("unexpected token %v", tok)}
		}
		var patterns []string
		if err := dec.Decode(&patterns); err != nil {
			return nil, &MalformedError{Cause: errors.Wrapf(err, "cannot decode patterns of %q", label)}
		}
		raw = append(raw, rawSignature{label: label, patterns: patterns})
	}

	if _, err := dec.Token(); err != nil {
		return nil, &MalformedError{Cause: errors.Wrap(err, "unterminated json object")}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &MalformedError{Cause: errors.New("trailing data after json object")}
	}
	return raw, nil
}

// decodeYAML walks the mapping node of a YAML document in document order.
// Scalars are taken verbatim, so a pattern like 0001 stays a string.
func decodeYAML(data []byte) ([]rawSignature, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedError{Cause: errors.Wrap(err, "cannot decode yaml")}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &MalformedError{Cause: errors.New("empty yaml document")}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &MalformedError{Errors: []FieldError{{Field: "(root)", Message: "Invalid type. Expected: object"}}}
	}

	var (
		raw         []rawSignature
		fieldErrors []FieldError
		document    = make(map[string]interface{}, len(root.Content)/2)
	)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.SequenceNode {
			fieldErrors = append(fieldErrors, FieldError{Field: key.Value, Message: "Invalid type. Expected: array"})
			continue
		}

		patterns := make([]string, 0, len(value.Content))
		items := make([]interface{}, 0, len(value.Content))
		for j, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				fieldErrors = append(fieldErrors, FieldError{
					Field:   key.Value + "." + strconv.Itoa(j),
					Message: "Invalid type. Expected: string",
				})
				continue
			}
			patterns = append(patterns, item.Value)
			items = append(items, item.Value)
		}
		raw = append(raw, rawSignature{label: key.Value, patterns: patterns})
		document[key.Value] = items
	}
	if len(fieldErrors) > 0 {
		return nil, &MalformedError{Errors: fieldErrors}
	}

	fieldErrors, err := validateSchema(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, &MalformedError{Cause: err}
	}
	if len(fieldErrors) > 0 {
		return nil, &MalformedError{Errors: fieldErrors}
	}
	return raw, nil
}

// build decodes the hex patterns of raw and creates the table.
func build(raw []rawSignature) (*Table, error) {
	var fieldErrors []FieldError
	sigs := make([]Signature, 0, len(raw))
	for _, r := range raw {
		sig := Signature{Label: r.label, Patterns: make([][]byte, 0, len(r.patterns))}
		for i, p := range r.patterns {
			b, err := decodeHex(p)
			if err != nil {
				fieldErrors = append(fieldErrors, FieldError{Field: r.label + "." + strconv.Itoa(i), Message: err.Error()})
				continue
			}
			sig.Patterns = append(sig.Patterns, b)
		}
		sigs = append(sigs, sig)
	}
	if len(fieldErrors) > 0 {
		return nil, &MalformedError{Errors: fieldErrors}
	}
	return NewTable(sigs)
}

// decodeHex decodes a hex string. Whitespace between byte pairs is ignored.
func decodeHex(s string) ([]byte, error) {
	compact := strings.Join(strings.Fields(s), "")
	if compact == "" {
		return nil, errors.New("empty pattern")
	}
	b, err := hex.DecodeString(compact)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex %q", s)
	}
	return b, nil
}
