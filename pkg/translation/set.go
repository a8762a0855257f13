package translation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/apex/log"
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// Set is the configs of every framework in a workspace, keyed by module.
type Set struct {
	modules    map[string]*Config
	frameworks map[string]*Config
}

// NewSet builds a set from configs, rejecting duplicate modules and
// frameworks.
func NewSet(configs ...*Config) (*Set, error) {
	s := &Set{
		modules:    make(map[string]*Config, len(configs)),
		frameworks: make(map[string]*Config, len(configs)),
	}
	for _, c := range configs {
		if prev, ok := s.modules[c.Module]; ok {
			return nil, &KeyError{File: c.File, Key: "module", Reason: fmt.Sprintf("module %q already defined in %s", c.Module, prev.File)}
		}
		if prev, ok := s.frameworks[c.Framework]; ok {
			return nil, &KeyError{File: c.File, Key: "framework", Reason: fmt.Sprintf("framework %q already defined in %s", c.Framework, prev.File)}
		}
		s.modules[c.Module] = c
		s.frameworks[c.Framework] = c
	}
	return s, nil
}

// LoadDir loads every <dir>/<module>/translation-config.toml. Each config's
// module must match the name of its directory.
func LoadDir(dir string) (*Set, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*", FileName))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to glob %s", dir)
	}
	if len(paths) == 0 {
		if _, err := os.Stat(dir); err != nil {
			return nil, errors.Wrapf(err, "failed to read config dir")
		}
		return nil, errors.Errorf("no %s found in %s", FileName, dir)
	}
	sort.Strings(paths)

	configs := make([]*Config, 0, len(paths))
	for _, path := range paths {
		c, err := Load(path)
		if err != nil {
			return nil, err
		}
		if name := filepath.Base(filepath.Dir(path)); name != c.Module {
			return nil, &KeyError{File: path, Key: "module", Reason: fmt.Sprintf("module %q does not match directory %q", c.Module, name)}
		}
		log.WithFields(log.Fields{
			"framework": c.Framework,
			"module":    c.Module,
		}).Debug("Loaded translation config")
		configs = append(configs, c)
	}
	return NewSet(configs...)
}

func (s *Set) Len() int {
	return len(s.modules)
}

// Module returns the config of a module.
func (s *Set) Module(name string) (*Config, bool) {
	c, ok := s.modules[name]
	return c, ok
}

// Framework returns the config of a framework.
func (s *Set) Framework(name string) (*Config, bool) {
	c, ok := s.frameworks[name]
	return c, ok
}

// Lookup finds a config by module or framework name.
func (s *Set) Lookup(name string) (*Config, bool) {
	if c, ok := s.modules[name]; ok {
		return c, true
	}
	return s.Framework(name)
}

// Modules returns all module names, sorted.
func (s *Set) Modules() []string {
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Configs returns all configs sorted by module.
func (s *Set) Configs() []*Config {
	configs := make([]*Config, 0, len(s.modules))
	for _, name := range s.Modules() {
		configs = append(configs, s.modules[name])
	}
	return configs
}

// Graph returns the module dependency graph, with an edge from each module
// to every module it depends on. Unknown dependencies and cycles are errors.
func (s *Set) Graph() (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())
	for _, name := range s.Modules() {
		if err := g.AddVertex(name); err != nil {
			return nil, errors.Wrapf(err, "failed to add module %s", name)
		}
	}
	for _, name := range s.Modules() {
		c := s.modules[name]
		for _, dep := range c.Dependencies() {
			if _, ok := s.modules[dep]; !ok {
				return nil, &KeyError{File: c.File, Key: "required-modules", Reason: fmt.Sprintf("unknown module %q", dep)}
			}
			if err := g.AddEdge(name, dep); err != nil {
				if errors.Is(err, graph.ErrEdgeCreatesCycle) {
					return nil, errors.Errorf("dependency cycle: %s depends on %s", name, dep)
				}
				if errors.Is(err, graph.ErrEdgeAlreadyExists) {
					continue
				}
				return nil, errors.Wrapf(err, "failed to add dependency %s -> %s", name, dep)
			}
		}
	}
	return g, nil
}

// Order returns the modules in generation order: every module comes after
// all of its dependencies. Ties are broken by name.
func (s *Set) Order() ([]string, error) {
	g, err := s.Graph()
	if err != nil {
		return nil, err
	}
	order, err := graph.StableTopologicalSort(g, func(a, b string) bool { return a > b })
	if err != nil {
		return nil, errors.Wrap(err, "failed to sort modules")
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// Closure returns the given modules plus everything they depend on,
// transitively, in generation order.
func (s *Set) Closure(names ...string) ([]string, error) {
	g, err := s.Graph()
	if err != nil {
		return nil, err
	}
	want := make(map[string]bool)
	for _, name := range names {
		c, ok := s.Lookup(name)
		if !ok {
			return nil, errors.Errorf("unknown module or framework %q", name)
		}
		if err := graph.DFS(g, c.Module, func(m string) bool {
			want[m] = true
			return false
		}); err != nil {
			return nil, errors.Wrapf(err, "failed to walk dependencies of %s", name)
		}
	}
	order, err := s.Order()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, m := range order {
		if want[m] {
			out = append(out, m)
		}
	}
	return out, nil
}

// DependencyPath returns the chain of modules through which from depends on
// to, or nil if it does not.
func (s *Set) DependencyPath(from, to string) ([]string, error) {
	g, err := s.Graph()
	if err != nil {
		return nil, err
	}
	path, err := graph.ShortestPath(g, from, to)
	if err != nil {
		if errors.Is(err, graph.ErrTargetNotReachable) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to find path from %s to %s", from, to)
	}
	return path, nil
}

// Available returns the modules available on at least one of the targets,
// in generation order, together with the reason every other module was
// left out.
func (s *Set) Available(t Targets) ([]string, map[string]string, error) {
	order, err := s.Order()
	if err != nil {
		return nil, nil, err
	}
	var ok []string
	skipped := make(map[string]string)
	for _, m := range order {
		c := s.modules[m]
		if supported, _ := c.Availability().Supports(t); supported {
			ok = append(ok, m)
			continue
		}
		skipped[m] = c.Availability().Unavailable(t)
	}
	return ok, skipped, nil
}
