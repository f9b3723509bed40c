// SPDX-License-Identifier: MPL-2.0

package exports

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

const (
	// BeginMarker opens an inline export section.
	BeginMarker = "### VSS_EXPORTS_BEGIN ###"
	// EndMarker closes an inline export section.
	EndMarker = "### VSS_EXPORTS_END ###"

	// PreEnvFileKey and PostEnvFileKey are reserved keys inside an export
	// section naming snapshot files instead of exporting variables.
	PreEnvFileKey  = "PRE_ENV_FILE"
	PostEnvFileKey = "POST_ENV_FILE"
)

// Line kinds.
const (
	// LineRegular is output to show to the user.
	LineRegular LineKind = iota
	// LineExport carries an exported variable in Key and Value.
	LineExport
	// LineMarker is protocol framing that is never shown.
	LineMarker
)

type (
	// LineKind classifies one line of script stdout.
	LineKind int

	// Line is the classification of one stdout line.
	Line struct {
		Kind LineKind
		// Text is the original line, set for LineRegular.
		Text string
		// Key and Value are set for LineExport.
		Key   string
		Value string
	}

	// LineParser is the streaming classifier for script stdout. It holds a
	// single inside/outside flag and must be fed lines in arrival order.
	// The zero value is ready to use.
	LineParser struct {
		inside   bool
		exports  map[string]string
		preFile  string
		postFile string
	}
)

func (k LineKind) String() string {
	switch k {
	case LineRegular:
		return "regular"
	case LineExport:
		return "export"
	case LineMarker:
		return "marker"
	default:
		return fmt.Sprintf("LineKind(%d)", int(k))
	}
}

// Process classifies line and updates the parser state. Exported variables
// are also recorded and returned later by Exports.
func (p *LineParser) Process(line string) Line {
	if strings.Contains(line, BeginMarker) {
		p.inside = true
		return Line{Kind: LineMarker}
	}
	if strings.Contains(line, EndMarker) {
		p.inside = false
		return Line{Kind: LineMarker}
	}
	if !p.inside {
		return Line{Kind: LineRegular, Text: line}
	}

	trimmed := strings.TrimSpace(line)
	key, value, ok := strings.Cut(trimmed, "=")
	if trimmed == "" || !ok {
		return Line{Kind: LineMarker}
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case PreEnvFileKey:
		p.preFile = value
		return Line{Kind: LineMarker}
	case PostEnvFileKey:
		p.postFile = value
		return Line{Kind: LineMarker}
	}

	value = unquote(value, '"')
	if p.exports == nil {
		p.exports = make(map[string]string)
	}
	p.exports[key] = value
	return Line{Kind: LineExport, Key: key, Value: value}
}

// Inside reports whether the parser is within an export section.
func (p *LineParser) Inside() bool {
	return p.inside
}

// Exports returns a copy of the variables collected so far.
func (p *LineParser) Exports() map[string]string {
	return maps.Clone(p.exports)
}

// SnapshotFiles returns the snapshot paths announced inside an export
// section, if any.
func (p *LineParser) SnapshotFiles() (pre, post string) {
	return p.preFile, p.postFile
}

// Encode writes vars as an inline export section with keys in sorted order.
func Encode(w io.Writer, vars map[string]string) error {
	if _, err := fmt.Fprintln(w, BeginMarker); err != nil {
		return err
	}
	for _, k := range slices.Sorted(maps.Keys(vars)) {
		if _, err := fmt.Fprintf(w, "%s=\"%s\"\n", k, vars[k]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, EndMarker)
	return err
}

// unquote strips one layer of matching quote characters.
func unquote(s string, quotes ...byte) string {
	if len(s) < 2 {
		return s
	}
	for _, q := range quotes {
		if s[0] == q && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}
