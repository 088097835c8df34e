// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package signatures

import (
	"github.com/xeipuuv/gojsonschema"
)

// sourceSchema describes a signature source: an object that maps each label to
// a non-empty list of hex strings. Whitespace between byte pairs is allowed.
const sourceSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": {
    "type": "array",
    "minItems": 1,
    "items": {
      "type": "string",
      "pattern": "^\\s*([0-9A-Fa-f]{2}\\s*)+$"
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(sourceSchema)

// validateSchema validates document against the source schema. A document that
// cannot be loaded at all is returned as error, schema violations as field
// errors.
func validateSchema(document gojsonschema.JSONLoader) ([]FieldError, error) {
	result, err := gojsonschema.Validate(schemaLoader, document)
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}

	fieldErrors := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		fieldErrors = append(fieldErrors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return fieldErrors, nil
}
