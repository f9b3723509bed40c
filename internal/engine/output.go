// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette is cycled through by script position in the run.
var palette = []lipgloss.Color{
	lipgloss.Color("2"), // green
	lipgloss.Color("3"), // yellow
	lipgloss.Color("4"), // blue
	lipgloss.Color("5"), // magenta
	lipgloss.Color("6"), // cyan
	lipgloss.Color("1"), // red
}

// colorFor returns the palette colour of the script at index.
func colorFor(index int) lipgloss.Color {
	return palette[index%len(palette)]
}

// printer serializes lines from concurrent drains onto one writer so lines
// of the two streams never interleave mid-line.
type printer struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
	style  lipgloss.Style
}

func newPrinter(w io.Writer, label string, color lipgloss.Color) *printer {
	style := lipgloss.NewStyle().Foreground(color)
	return &printer{w: w, prefix: style.Render("[" + label + "]"), style: style}
}

// Line prints text with the script prefix.
func (p *printer) Line(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s %s\n", p.prefix, text)
}

// Plain prints text in the script colour without a prefix.
func (p *printer) Plain(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, p.style.Render(text))
}

// Var prints one banner variable.
func (p *printer) Var(v envVar) {
	name := v.Name
	if v.From != "" {
		name = fmt.Sprintf("%s (from %s)", v.Name, v.From)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "    %s: %s\n", p.style.Render(name), v.Value)
}

// readLines calls fn for every line of r, without the line terminator, until
// EOF or a read error. A trailing line without a newline is delivered too.
func readLines(r io.Reader, fn func(string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			fn(strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
