// SPDX-License-Identifier: MPL-2.0

package script

import (
	"bytes"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

const annotationPrefix = "@vercel."

var (
	argPattern      = regexp.MustCompile(`(?m)@vercel\.arg[ \t]+([A-Za-z0-9_]+)[ \t]+(.+)$`)
	optPattern      = regexp.MustCompile(`(?m)@vercel\.opt[ \t]+(.+)$`)
	requiresPattern = regexp.MustCompile(`(?m)@vercel\.requires[ \t]+(.+)$`)

	attributePatterns = map[string]*regexp.Regexp{
		"name":        regexp.MustCompile(`@vercel\.name[ \t]+(.+)`),
		"description": regexp.MustCompile(`@vercel\.description[ \t]+(.+)`),
		"after":       regexp.MustCompile(`@vercel\.after[ \t]+(.+)`),
	}
)

// NormalizeRef strips a leading "./" from a dependency reference.
func NormalizeRef(ref string) string {
	return strings.TrimPrefix(ref, "./")
}

// Parse builds a Descriptor from script content. For external scripts path
// must be the canonical absolute path; for embedded scripts it is the
// filename inside the embedded tree.
func Parse(content []byte, scriptPath string, embedded bool) (Descriptor, error) {
	filename := filepath.Base(scriptPath)
	d := Descriptor{
		Name:         filename,
		Pathname:     scriptPath,
		AbsolutePath: scriptPath,
		Embedded:     embedded,
		Description:  attribute(content, "description"),
	}
	if embedded {
		d.Pathname = filename
		d.AbsolutePath = path.Join(embeddedRoot, filename)
	}
	if name := attribute(content, "name"); name != "" {
		d.Name = name
	}

	if after := attribute(content, "after"); after != "" {
		d.After = strings.Fields(after)
		for _, ref := range d.After {
			if escapesDir(ref) {
				return Descriptor{}, &InvalidDependencyPathError{Ref: ref, Path: scriptPath}
			}
		}
	}

	for _, m := range requiresPattern.FindAllSubmatch(content, -1) {
		tokens := strings.Fields(string(m[1]))
		if len(tokens) == 0 {
			continue
		}
		if escapesDir(tokens[0]) {
			return Descriptor{}, &InvalidDependencyPathError{Ref: tokens[0], Path: scriptPath}
		}
		d.Requires = append(d.Requires, Requirement{Script: tokens[0], Variables: tokens[1:]})
	}

	for _, m := range argPattern.FindAllSubmatch(content, -1) {
		d.Args = append(d.Args, Arg{
			Name:        string(m[1]),
			Description: strings.TrimSpace(string(m[2])),
		})
	}

	for _, m := range optPattern.FindAllSubmatch(content, -1) {
		payload := strings.TrimSpace(string(m[1]))
		opt, err := ParseOpt([]byte(payload))
		if err != nil {
			return Descriptor{}, &InvalidOptionError{Payload: payload, Path: scriptPath, Err: err}
		}
		d.Opts = append(d.Opts, opt)
	}

	if bytes.Contains(content, []byte(annotationPrefix+"stdin inherit")) {
		d.Stdin = StdinInherit
	}

	return d, nil
}

func attribute(content []byte, name string) string {
	m := attributePatterns[name].FindSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(string(m[1]))
}

// escapesDir reports whether a reference walks into a parent directory.
func escapesDir(ref string) bool {
	return slices.Contains(strings.Split(filepath.ToSlash(ref), "/"), "..")
}

// CheckSyntax parses content as a bash script and returns the first syntax
// error, if any.
func CheckSyntax(content []byte, name string) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash), syntax.KeepComments(false))
	_, err := parser.Parse(bytes.NewReader(content), name)
	return err
}
