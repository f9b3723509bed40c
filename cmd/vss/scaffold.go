// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"vss-cli/internal/exports"
	"vss-cli/internal/script"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

	errEmptyFilename     = errors.New("filename cannot be empty")
	errFilenameSeparator = errors.New("filename cannot contain path separators")
	errFilenameExtension = errors.New("don't include the .sh extension")
	errInvalidIdentifier = errors.New("use only letters, digits and underscores")
	errEmptyValue        = errors.New("value cannot be empty")
)

// scaffold describes a script created by `vss new`.
type scaffold struct {
	Shell        string
	Name         string
	Description  string
	After        []string
	Requires     []script.Requirement
	Args         []script.Arg
	Opts         []script.Opt
	InheritStdin bool
	// Exports are variables the script publishes through an export block.
	Exports []string
}

// Render produces the script source and checks that it parses.
func (s scaffold) Render() ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "#!/usr/bin/env %s\n\n", s.Shell)
	fmt.Fprintf(&b, "# @vercel.name %s\n", s.Name)
	if s.Description != "" {
		fmt.Fprintf(&b, "# @vercel.description %s\n", s.Description)
	}
	if len(s.After) > 0 {
		fmt.Fprintf(&b, "# @vercel.after %s\n", strings.Join(s.After, " "))
	}
	for _, req := range s.Requires {
		fmt.Fprintf(&b, "# @vercel.requires %s %s\n", req.Script, strings.Join(req.Variables, " "))
	}
	for _, arg := range s.Args {
		fmt.Fprintf(&b, "# @vercel.arg %s %s\n", arg.Name, arg.Description)
	}
	for _, opt := range s.Opts {
		payload, err := script.MarshalOpt(opt)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "# @vercel.opt %s\n", payload)
	}
	if s.InheritStdin {
		fmt.Fprintf(&b, "# @vercel.stdin %s\n", script.StdinInherit)
	}

	b.WriteString("\nset -e\n\n")
	b.WriteString("# TODO: Implement your script logic here\n")

	if len(s.Exports) > 0 {
		vars := make(map[string]string, len(s.Exports))
		for _, name := range s.Exports {
			vars[name] = "${" + name + "}"
		}
		b.WriteString("\ncat <<EOF\n")
		if err := exports.Encode(&b, vars); err != nil {
			return nil, err
		}
		b.WriteString("EOF\n")
	}

	content := b.Bytes()
	if err := script.CheckSyntax(content, s.Name); err != nil {
		return nil, fmt.Errorf("generated script does not parse: %w", err)
	}
	return content, nil
}

// validateFilename returns the input validator for a new script name in dir.
func validateFilename(dir string) func(string) error {
	return func(name string) error {
		switch {
		case strings.TrimSpace(name) == "":
			return errEmptyFilename
		case strings.ContainsAny(name, `/\`):
			return errFilenameSeparator
		case strings.HasSuffix(name, script.Extension):
			return errFilenameExtension
		}
		path := filepath.Join(dir, name+script.Extension)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s", path)
		}
		return nil
	}
}

func validateIdentifier(s string) error {
	if !identifierPattern.MatchString(s) {
		return errInvalidIdentifier
	}
	return nil
}

func validateNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errEmptyValue
	}
	return nil
}

func validateRegexp(s string) error {
	if _, err := regexp.Compile(s); err != nil {
		return fmt.Errorf("invalid regex pattern: %w", err)
	}
	return nil
}

// defaultScriptName derives a display name from a filename.
func defaultScriptName(filename string) string {
	base := strings.TrimSuffix(filename, script.Extension)
	return strings.NewReplacer("_", " ", "-", " ").Replace(base)
}

// refFor returns the dependency reference that resolves to d from a script
// in targetDir.
func refFor(d script.Descriptor, targetDir string) string {
	switch {
	case d.Embedded:
		return d.Pathname
	case d.Dir() == targetDir:
		return "./" + filepath.Base(d.Pathname)
	default:
		return d.Pathname
	}
}
