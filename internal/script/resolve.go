// SPDX-License-Identifier: MPL-2.0

package script

import (
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
)

var discardLogger = log.New(io.Discard)

// Resolver maps dependency references to discovered scripts.
type Resolver struct {
	scripts []Descriptor
	index   map[Key]int
	dirs    []string
	logger  *log.Logger
}

// NewResolver indexes scripts for reference resolution. dirs are the
// configured external script directories in configured order.
func NewResolver(scripts []Descriptor, dirs []string, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = discardLogger
	}
	r := &Resolver{
		scripts: scripts,
		index:   make(map[Key]int, len(scripts)),
		logger:  logger,
	}
	for i, s := range scripts {
		r.index[s.Key()] = i
	}
	for _, dir := range dirs {
		canonical, err := CanonicalPath(dir)
		if err != nil {
			canonical = filepath.Clean(dir)
		}
		r.dirs = append(r.dirs, canonical)
	}
	return r
}

// Resolve finds the script that ref names, as declared by from. Resolution
// tries, in order: the embedded filename, an absolute path, the directory of
// from (external scripts only), and every configured directory.
func (r *Resolver) Resolve(ref string, from Descriptor) (Descriptor, bool) {
	normalized := NormalizeRef(ref)
	r.logger.Debug("resolving dependency", "ref", ref, "normalized", normalized, "script", from.Name)

	if i, ok := r.index[Key{Kind: KeyEmbedded, Name: normalized}]; ok {
		r.logger.Debug("found dependency by filename", "ref", normalized)
		return r.scripts[i], true
	}

	if filepath.IsAbs(normalized) {
		if i, ok := r.index[Key{Kind: KeyExternal, Name: filepath.Clean(normalized)}]; ok {
			return r.scripts[i], true
		}
	}

	if !from.Embedded {
		candidate := filepath.Join(from.Dir(), normalized)
		if i, ok := r.index[Key{Kind: KeyExternal, Name: candidate}]; ok {
			r.logger.Debug("found dependency relative to script directory", "ref", normalized)
			return r.scripts[i], true
		}
	}

	for _, dir := range r.dirs {
		candidate := filepath.Join(dir, normalized)
		if i, ok := r.index[Key{Kind: KeyExternal, Name: candidate}]; ok {
			r.logger.Debug("found dependency in script directory", "ref", normalized, "dir", dir)
			return r.scripts[i], true
		}
	}

	r.logger.Debug("could not resolve dependency", "ref", normalized)
	return Descriptor{}, false
}
