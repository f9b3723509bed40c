// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates JSON documents against embedded CUE schemas.
//
// JSON is a subset of CUE, so a document is compiled as-is, unified with a
// definition from the schema and decoded into a Go value:
//
//	//go:embed schema.cue
//	var schema string
//
//	cfg, err := cueutil.Decode[Global](schema, data, "#Global",
//	    cueutil.WithFilename(path))
//
// Errors carry the file name and the JSON path of the offending field.
package cueutil
