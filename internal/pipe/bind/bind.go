// Package bind generates the bindings of every module left to generate.
package bind

import (
	"github.com/apex/log"
	"github.com/blacktop/go-objc/internal/context"
	"github.com/blacktop/go-objc/pkg/bindgen"
	"golang.org/x/sync/errgroup"
)

// Pipe for generating.
type Pipe struct{}

func (Pipe) String() string { return "generating bindings" }

// Run the pipe.
func (Pipe) Run(ctx *context.Context) error {
	mods := ctx.BindModules()
	opts := bindgen.Options{
		ImportPrefix: ctx.Config.ImportPrefix,
		Targets:      ctx.Config.Targets,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ctx.Parallelism)
	for _, module := range ctx.Modules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// generators cache per-module state and are not shared
			gen, err := bindgen.New(opts, mods...)
			if err != nil {
				return err
			}
			res, err := gen.Generate(module)
			if err != nil {
				return err
			}
			for _, s := range res.Skipped {
				log.WithField("module", module).Debugf("skipped %s", s)
			}
			log.WithFields(log.Fields{
				"module":  module,
				"skipped": len(res.Skipped),
			}).Info("generated")
			ctx.AddResult(res)
			return nil
		})
	}
	return g.Wait()
}
