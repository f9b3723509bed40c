// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// FormatError rewrites a CUE error as "<file>: <json.path>: <message>", one
// line per underlying error.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	list := errors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(list))
	for _, e := range list {
		path := formatPath(errors.Path(e))
		msg := e.Error()
		if path == "" {
			lines = append(lines, msg)
			continue
		}
		msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		lines = append(lines, path+": "+msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath renders a CUE path such as ["opts", "0", "name"] as
// "opts[0].name".
func formatPath(path []string) string {
	var sb strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize fails when data is larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
