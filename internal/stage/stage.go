// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"vss-cli/internal/script"

	"github.com/charmbracelet/log"
)

const (
	// CacheDirName is the directory created under the user cache directory.
	CacheDirName = "vercel-scripts"
	// RuntimeName is the filename of the runtime shim.
	RuntimeName = "runtime.sh"

	execMode fs.FileMode = 0o755
)

//go:embed runtime.sh
var runtimeScript []byte

var discardLogger = log.New(io.Discard)

type (
	// Source provides the current content of a script. *script.Discoverer
	// implements it.
	Source interface {
		Content(script.Descriptor) ([]byte, error)
	}

	// Stager writes executable copies of scripts into Dir.
	Stager struct {
		// Dir is the cache directory. It is created on demand.
		Dir string
		// Source supplies embedded script content.
		Source Source
		// Logger receives debug output. A nil value discards it.
		Logger *log.Logger
	}
)

// DefaultDir returns the cache directory used when none is configured.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", fmt.Errorf("failed to locate cache directory: %w", errors.Join(err, homeErr))
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, CacheDirName), nil
}

// New returns a Stager rooted at DefaultDir.
func New(source Source, logger *log.Logger) (*Stager, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return &Stager{Dir: dir, Source: source, Logger: logger}, nil
}

// PrepareRuntime writes the runtime shim and returns its path.
func (s *Stager) PrepareRuntime() (string, error) {
	path := filepath.Join(s.Dir, RuntimeName)
	s.logger().Debug("preparing runtime shim", "path", path)
	if err := s.write(path, runtimeScript); err != nil {
		return "", err
	}
	return path, nil
}

// PrepareScript returns an executable path for d. Embedded scripts are
// written to <Dir>/<prefix>/<filename>; external scripts run from their
// source file.
func (s *Stager) PrepareScript(d script.Descriptor, prefix string) (string, error) {
	if !d.Embedded {
		return d.AbsolutePath, nil
	}
	if s.Source == nil {
		return "", fmt.Errorf("no content source for embedded script %s", d.Pathname)
	}

	content, err := s.Source.Content(d)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.Dir, prefix, filepath.Base(d.Pathname))
	s.logger().Debug("preparing script", "script", d.Name, "path", path)
	if err := s.write(path, content); err != nil {
		return "", err
	}
	return path, nil
}

// write stores content at path unless the file already holds it, then makes
// sure the file is executable.
func (s *Stager) write(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}

	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		s.logger().Debug("content unchanged, skipping write", "path", path)
	} else {
		if err := os.WriteFile(path, content, execMode); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		s.logger().Debug("content written", "path", path, "bytes", len(content))
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Mode().Perm() != execMode {
		if err := os.Chmod(path, execMode); err != nil {
			return fmt.Errorf("failed to make %s executable: %w", path, err)
		}
	}
	return nil
}

func (s *Stager) logger() *log.Logger {
	if s.Logger == nil {
		return discardLogger
	}
	return s.Logger
}
