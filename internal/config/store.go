// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"vss-cli/internal/cueutil"
	"vss-cli/internal/issue"

	"github.com/charmbracelet/log"
)

var discardLogger = log.New(io.Discard)

type (
	// Document is a value a Store can hold.
	Document[T any] interface {
		Clone() T
	}

	// Store is a JSON document loaded on first access and cached. Updates
	// are written back immediately. A Store is safe for concurrent use.
	Store[T Document[T]] struct {
		path       string
		definition string
		logger     *log.Logger

		mu     sync.Mutex
		loaded bool
		value  T
	}
)

// NewStore creates a store for the document at path, validated against the
// given schema definition.
func NewStore[T Document[T]](path, definition string, logger *log.Logger) *Store[T] {
	if logger == nil {
		logger = discardLogger
	}
	return &Store[T]{path: path, definition: definition, logger: logger}
}

// Path returns the document location.
func (s *Store[T]) Path() string {
	return s.path
}

// Get returns a copy of the document. A missing file yields the zero
// document.
func (s *Store[T]) Get() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		var zero T
		return zero, err
	}
	return s.value.Clone(), nil
}

// Update applies fn to a copy of the document and persists the result. The
// cached document only changes when the write succeeds.
func (s *Store[T]) Update(fn func(*T)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return err
	}
	next := s.value.Clone()
	fn(&next)
	if err := s.save(next); err != nil {
		return err
	}
	s.value = next
	return nil
}

func (s *Store[T]) ensureLoaded() error {
	if s.loaded {
		return nil
	}
	value, err := s.load()
	if err != nil {
		return err
	}
	s.value = value.Clone()
	s.loaded = true
	return nil
}

func (s *Store[T]) load() (T, error) {
	var zero T
	s.logger.Debug("loading config", "path", s.path)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("config file not found, using defaults", "path", s.path)
		return zero, nil
	}
	if err != nil {
		return zero, issue.NewErrorContext().
			WithOperation("read configuration").
			WithResource(s.path).
			WithSuggestion("Check that the file is readable").
			Wrap(err).
			BuildError()
	}

	value, err := cueutil.Decode[T](configSchema, data, s.definition, cueutil.WithFilename(s.path))
	if err != nil {
		return zero, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(s.path).
			WithSuggestion("Check that the file contains valid JSON").
			WithSuggestion("Delete the file to start over with defaults").
			Wrap(err).
			BuildError()
	}
	s.logger.Debug("config loaded", "path", s.path)
	return value, nil
}

func (s *Store[T]) save(value T) error {
	s.logger.Debug("updating config", "path", s.path)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
