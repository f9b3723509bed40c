// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize caps the size of decoded documents (1MB).
const DefaultMaxFileSize int64 = 1 << 20

type (
	options struct {
		maxFileSize int64
		filename    string
	}

	// Option configures Decode.
	Option func(*options)
)

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *options) { o.maxFileSize = size }
}

// WithFilename names the document in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// Decode unifies data with the definition of schema and decodes the result
// into a T. Every field present in data must be concrete and match the
// schema.
func Decode[T any](schema string, data []byte, definition string, opts ...Option) (T, error) {
	var result T
	o := options{maxFileSize: DefaultMaxFileSize, filename: "<input>"}
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return result, err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(schema)
	if err := schemaValue.Err(); err != nil {
		return result, fmt.Errorf("internal error: failed to compile schema: %w", err)
	}
	def := schemaValue.LookupPath(cue.ParsePath(definition))
	if err := def.Err(); err != nil {
		return result, fmt.Errorf("internal error: schema definition %s not found: %w", definition, err)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if err := userValue.Err(); err != nil {
		return result, FormatError(err, o.filename)
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return result, FormatError(err, o.filename)
	}
	if err := unified.Decode(&result); err != nil {
		return result, FormatError(err, o.filename)
	}
	return result, nil
}
