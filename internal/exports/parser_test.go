// SPDX-License-Identifier: MPL-2.0

package exports

import (
	"bytes"
	"maps"
	"strings"
	"testing"
)

func TestLineParser_Classification(t *testing.T) {
	t.Parallel()

	steps := []struct {
		line       string
		want       Line
		wantInside bool
	}{
		{"plain text", Line{Kind: LineRegular, Text: "plain text"}, false},
		{BeginMarker, Line{Kind: LineMarker}, true},
		{"KEY=value", Line{Kind: LineExport, Key: "KEY", Value: "value"}, true},
		{`KEY2="a b"`, Line{Kind: LineExport, Key: "KEY2", Value: "a b"}, true},
		{"", Line{Kind: LineMarker}, true},
		{"   ", Line{Kind: LineMarker}, true},
		{"no equals sign", Line{Kind: LineMarker}, true},
		{"  SPACED = padded  ", Line{Kind: LineExport, Key: "SPACED", Value: "padded"}, true},
		{"PRE_ENV_FILE=/tmp/pre", Line{Kind: LineMarker}, true},
		{"POST_ENV_FILE=/tmp/post", Line{Kind: LineMarker}, true},
		{EndMarker, Line{Kind: LineMarker}, false},
		{"KEY=after end", Line{Kind: LineRegular, Text: "KEY=after end"}, false},
	}

	var p LineParser
	for i, step := range steps {
		got := p.Process(step.line)
		if got != step.want {
			t.Errorf("step %d: Process(%q) = %+v, want %+v", i, step.line, got, step.want)
		}
		if p.Inside() != step.wantInside {
			t.Errorf("step %d: Inside() = %v, want %v", i, p.Inside(), step.wantInside)
		}
	}

	want := map[string]string{"KEY": "value", "KEY2": "a b", "SPACED": "padded"}
	if got := p.Exports(); !maps.Equal(got, want) {
		t.Errorf("Exports() = %v, want %v", got, want)
	}
	pre, post := p.SnapshotFiles()
	if pre != "/tmp/pre" || post != "/tmp/post" {
		t.Errorf("SnapshotFiles() = %q, %q", pre, post)
	}
}

func TestLineParser_MarkersMatchAsSubstring(t *testing.T) {
	t.Parallel()

	var p LineParser
	if got := p.Process("echo: " + BeginMarker + " trailing"); got.Kind != LineMarker || !p.Inside() {
		t.Fatalf("embedded begin marker not recognised: %+v", got)
	}
	if got := p.Process("  " + EndMarker); got.Kind != LineMarker || p.Inside() {
		t.Fatalf("indented end marker not recognised: %+v", got)
	}
}

func TestLineParser_OnlyDoubleQuotesStripped(t *testing.T) {
	t.Parallel()

	var p LineParser
	p.Process(BeginMarker)
	tests := map[string]string{
		`A='single'`:   "'single'",
		`B="`:          `"`,
		`C=""`:         "",
		`D="x"y"`:      `x"y`,
		`E=a=b`:        "a=b",
		`F="unclosed`:  `"unclosed`,
	}
	for line, want := range tests {
		got := p.Process(line)
		if got.Kind != LineExport || got.Value != want {
			t.Errorf("Process(%q) = %+v, want value %q", line, got, want)
		}
	}
}

func TestLineParser_ExportsIsACopy(t *testing.T) {
	t.Parallel()

	var p LineParser
	if got := p.Exports(); len(got) != 0 {
		t.Errorf("zero parser Exports() = %v", got)
	}
	p.Process(BeginMarker)
	p.Process("A=1")
	got := p.Exports()
	got["A"] = "changed"
	if p.Exports()["A"] != "1" {
		t.Error("Exports() must not alias parser state")
	}
}

func TestEncode_IsReadByLineParser(t *testing.T) {
	t.Parallel()

	vars := map[string]string{"B": "two words", "A": "1"}
	var buf bytes.Buffer
	if err := Encode(&buf, vars); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if lines[0] != BeginMarker || lines[1] != `A="1"` || lines[len(lines)-1] != EndMarker {
		t.Errorf("unexpected encoding:\n%s", buf.String())
	}

	var p LineParser
	for _, l := range lines {
		if got := p.Process(l); got.Kind == LineRegular {
			t.Errorf("encoded line %q classified as regular", l)
		}
	}
	if !maps.Equal(p.Exports(), vars) {
		t.Errorf("Exports() = %v, want %v", p.Exports(), vars)
	}
}

func TestLineKind_String(t *testing.T) {
	t.Parallel()

	if LineExport.String() != "export" || LineKind(9).String() != "LineKind(9)" {
		t.Errorf("unexpected String() output")
	}
}
