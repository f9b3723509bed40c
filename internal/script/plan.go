// SPDX-License-Identifier: MPL-2.0

package script

import (
	"errors"
	"slices"

	"vss-cli/internal/dag"

	"github.com/charmbracelet/log"
)

type (
	// Dependency is a resolved @vercel.requires entry.
	Dependency struct {
		// Ref is the reference as written in the annotation.
		Ref string
		// Pathname identifies the resolved script.
		Pathname string
		// Variables are the names the resolved script must export.
		Variables []string
	}

	// Plan is a dependency-respecting execution order over a set of scripts.
	Plan struct {
		// Scripts holds every planned script exactly once; each script appears
		// after all of its dependencies.
		Scripts []Descriptor

		requires map[string][]Dependency
	}
)

// BuildPlan resolves every dependency reference of scripts and orders them
// topologically. It fails with *DependencyNotFoundError when a reference
// cannot be resolved, with *CircularDependencyError when the graph has a
// cycle and with *DuplicateScriptError when two scripts share a pathname. On
// failure no partial plan is returned.
func BuildPlan(scripts []Descriptor, dirs []string, logger *log.Logger) (*Plan, error) {
	if logger == nil {
		logger = discardLogger
	}
	logger.Debug("building dependency graph", "scripts", len(scripts))

	resolver := NewResolver(scripts, dirs, logger)
	graph := dag.New[Key]()
	byKey := make(map[Key]Descriptor, len(scripts))
	requires := make(map[string][]Dependency)

	for _, s := range scripts {
		if graph.HasNode(s.Key()) {
			return nil, &DuplicateScriptError{Pathname: s.Pathname}
		}
		graph.AddNode(s.Key())
		byKey[s.Key()] = s
	}

	for _, s := range scripts {
		for _, ref := range s.After {
			dep, ok := resolver.Resolve(ref, s)
			if !ok {
				return nil, &DependencyNotFoundError{Ref: ref, Script: s.Name}
			}
			logger.Debug("adding dependency edge", "from", dep.Name, "to", s.Name)
			graph.AddEdge(dep.Key(), s.Key())
		}

		for _, req := range s.Requires {
			dep, ok := resolver.Resolve(req.Script, s)
			if !ok {
				return nil, &DependencyNotFoundError{Ref: req.Script, Script: s.Name, Required: true}
			}
			logger.Debug("adding requirement edge", "from", dep.Name, "to", s.Name, "vars", req.Variables)
			graph.AddEdge(dep.Key(), s.Key())
			requires[s.Pathname] = append(requires[s.Pathname], Dependency{
				Ref:       req.Script,
				Pathname:  dep.Pathname,
				Variables: req.Variables,
			})
		}
	}

	logger.Debug("dependency graph built", "nodes", graph.Len())
	order, err := graph.TopologicalSort()
	if err != nil {
		var cycleErr *dag.CycleError[Key]
		if errors.As(err, &cycleErr) {
			names := make([]string, len(cycleErr.Cycle))
			for i, k := range cycleErr.Cycle {
				names[i] = byKey[k].Pathname
			}
			return nil, &CircularDependencyError{Scripts: names}
		}
		return nil, err
	}

	plan := &Plan{Scripts: make([]Descriptor, len(order)), requires: requires}
	for i, k := range order {
		plan.Scripts[i] = byKey[k]
	}

	if logger.GetLevel() <= log.DebugLevel {
		names := make([]string, len(plan.Scripts))
		for i, s := range plan.Scripts {
			names[i] = s.Name
		}
		logger.Debug("final execution order", "scripts", names)
	}

	return plan, nil
}

// Requirements returns the resolved data dependencies of the script with the
// given pathname.
func (p *Plan) Requirements(pathname string) []Dependency {
	return p.requires[pathname]
}

// Select returns a plan restricted to the given pathnames, keeping the
// planned order. Unknown pathnames are ignored.
func (p *Plan) Select(pathnames []string) *Plan {
	selected := &Plan{requires: p.requires}
	for _, s := range p.Scripts {
		if slices.Contains(pathnames, s.Pathname) {
			selected.Scripts = append(selected.Scripts, s)
		}
	}
	return selected
}

// Pathnames returns the pathnames of the planned scripts in order.
func (p *Plan) Pathnames() []string {
	names := make([]string, len(p.Scripts))
	for i, s := range p.Scripts {
		names[i] = s.Pathname
	}
	return names
}

// MissingRequirements returns, for every selected script, the required
// scripts that are not part of selected. It backs the selection prompt
// validator.
func (p *Plan) MissingRequirements(selected []string) []MissingRequirement {
	var missing []MissingRequirement
	for _, s := range p.Scripts {
		if !slices.Contains(selected, s.Pathname) {
			continue
		}
		for _, dep := range p.requires[s.Pathname] {
			if !slices.Contains(selected, dep.Pathname) {
				missing = append(missing, MissingRequirement{Script: s.Name, Ref: dep.Ref})
			}
		}
	}
	return missing
}

// MissingRequirement names a selected script whose required script is not selected.
type MissingRequirement struct {
	Script string
	Ref    string
}
