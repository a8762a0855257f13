// Package context provides the objcgen context which is passed through the
// pipeline.
//
// The context extends the standard library context and adds the state the
// pipes hand to each other: loaded configs and symbol models, the modules
// left to generate, and the generated results.
package context

import (
	stdctx "context"
	"sort"
	"sync"
	"time"

	"github.com/blacktop/go-objc/internal/config"
	"github.com/blacktop/go-objc/pkg/bindgen"
	"github.com/blacktop/go-objc/pkg/symbols"
	"github.com/blacktop/go-objc/pkg/translation"
)

// Context carries along some data through the pipes.
type Context struct {
	stdctx.Context
	Config      config.Generate
	Date        time.Time
	Parallelism int
	// Only restricts generation to these modules or frameworks and what
	// they depend on.
	Only []string
	// SkipWrite stops the pipeline before anything is written.
	SkipWrite bool

	Set     *translation.Set
	Models  map[string]*symbols.Module
	Modules []string

	mu      sync.Mutex
	results map[string]*bindgen.Result
	skipped map[string]string
}

// New context.
func New(config config.Generate) *Context {
	return Wrap(stdctx.Background(), config)
}

// NewWithTimeout new context with the given timeout.
func NewWithTimeout(config config.Generate, timeout time.Duration) (*Context, stdctx.CancelFunc) {
	if timeout <= 0 {
		ctx, cancel := stdctx.WithCancel(stdctx.Background())
		return Wrap(ctx, config), cancel
	}
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), timeout)
	return Wrap(ctx, config), cancel
}

// Wrap wraps an existing context.
func Wrap(ctx stdctx.Context, config config.Generate) *Context {
	parallelism := config.Parallel
	if parallelism < 1 {
		parallelism = 4
	}
	return &Context{
		Context:     ctx,
		Config:      config,
		Date:        time.Now(),
		Parallelism: parallelism,
		Models:      make(map[string]*symbols.Module),
		results:     make(map[string]*bindgen.Result),
		skipped:     make(map[string]string),
	}
}

// AddResult records the generated binding of a module. It is safe to call
// from concurrent pipes.
func (c *Context) AddResult(r *bindgen.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[r.Module] = r
}

// Results returns the generated bindings sorted by module.
func (c *Context) Results() []*bindgen.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*bindgen.Result, 0, len(c.results))
	for _, r := range c.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Module < out[j].Module })
	return out
}

// SkipModule records that a pipe left module out. The first reason wins.
func (c *Context) SkipModule(module, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.skipped[module]; !ok {
		c.skipped[module] = reason
	}
}

// SkippedModules returns the modules pipes left out, with why.
func (c *Context) SkippedModules() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.skipped))
	for m, r := range c.skipped {
		out[m] = r
	}
	return out
}

// BindModules returns the loaded modules in the form the generator takes.
func (c *Context) BindModules() []*bindgen.Module {
	var mods []*bindgen.Module
	for _, name := range c.Set.Modules() {
		model, ok := c.Models[name]
		if !ok {
			continue
		}
		cfg, _ := c.Set.Module(name)
		mods = append(mods, &bindgen.Module{Config: cfg, Symbols: model})
	}
	return mods
}
