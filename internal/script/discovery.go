// SPDX-License-Identifier: MPL-2.0

package script

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

//go:embed embedded/*.sh
var embeddedFiles embed.FS

// EmbeddedFS returns the scripts shipped inside the binary, rooted at their
// filenames.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedFiles, "embedded")
	if err != nil {
		panic(fmt.Sprintf("embedded scripts: %v", err))
	}
	return sub
}

// Discoverer loads script descriptors from the embedded tree and from
// configured directories.
type Discoverer struct {
	// Embedded holds the built-in scripts. A nil value disables them.
	Embedded fs.FS
	// Logger receives debug output. A nil value discards it.
	Logger *log.Logger
}

// NewDiscoverer creates a Discoverer for the built-in scripts.
func NewDiscoverer(logger *log.Logger) *Discoverer {
	return &Discoverer{Embedded: EmbeddedFS(), Logger: logger}
}

// Discover returns the embedded scripts followed by the scripts of every
// directory in dirs, in directory order. Directories are not searched
// recursively and missing directories are skipped. A script reached twice,
// through a repeated directory or a symlink, is kept at its first position.
func (d *Discoverer) Discover(dirs []string) ([]Descriptor, error) {
	logger := d.logger()
	logger.Debug("starting script discovery", "dirs", len(dirs))

	var all []Descriptor
	embedded, err := d.loadEmbedded()
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded embedded scripts", "count", len(embedded))
	all = append(all, embedded...)

	seen := make(map[string]struct{})

	for _, dir := range dirs {
		scripts, err := d.loadDir(dir)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded scripts from directory", "dir", dir, "count", len(scripts))
		for _, s := range scripts {
			if _, dup := seen[s.Pathname]; dup {
				logger.Debug("skipping duplicate script", "pathname", s.Pathname, "dir", dir)
				continue
			}
			seen[s.Pathname] = struct{}{}
			all = append(all, s)
		}
	}

	logger.Debug("script discovery finished", "total", len(all))
	return all, nil
}

// Content returns the current source of a discovered script.
func (d *Discoverer) Content(desc Descriptor) ([]byte, error) {
	if desc.Embedded {
		if d.Embedded == nil {
			return nil, fmt.Errorf("embedded script not found: %s", desc.Pathname)
		}
		data, err := fs.ReadFile(d.Embedded, desc.Pathname)
		if err != nil {
			return nil, fmt.Errorf("embedded script not found: %s: %w", desc.Pathname, err)
		}
		return data, nil
	}
	return os.ReadFile(desc.AbsolutePath)
}

func (d *Discoverer) loadEmbedded() ([]Descriptor, error) {
	if d.Embedded == nil {
		return nil, nil
	}
	entries, err := fs.ReadDir(d.Embedded, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded scripts: %w", err)
	}

	var scripts []Descriptor
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		data, err := fs.ReadFile(d.Embedded, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded script %s: %w", e.Name(), err)
		}
		desc, err := Parse(data, e.Name(), true)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, desc)
	}
	return scripts, nil
}

func (d *Discoverer) loadDir(dir string) ([]Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		d.logger().Debug("skipping missing script directory", "dir", dir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read script directory %s: %w", dir, err)
	}

	var scripts []Descriptor
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Extension {
			continue
		}
		abs, err := CanonicalPath(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to read script %s: %w", abs, err)
		}
		desc, err := Parse(data, abs, false)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, desc)
	}
	return scripts, nil
}

func (d *Discoverer) logger() *log.Logger {
	if d.Logger == nil {
		return discardLogger
	}
	return d.Logger
}

// CountScripts returns the number of script files directly inside dir.
func CountScripts(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	return len(slices.DeleteFunc(entries, func(e os.DirEntry) bool {
		return e.IsDir() || filepath.Ext(e.Name()) != Extension
	})), nil
}

// CanonicalPath returns the absolute path of p with symlinks resolved. When
// p does not exist the cleaned absolute path is returned.
func CanonicalPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", p, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs, nil
	}
	return resolved, nil
}
