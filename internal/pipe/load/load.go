// Package load reads the translation config and symbol model of every
// module in the frameworks directory.
package load

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/apex/log"
	"github.com/blacktop/go-objc/internal/context"
	"github.com/blacktop/go-objc/internal/pipe"
	"github.com/blacktop/go-objc/pkg/symbols"
	"github.com/blacktop/go-objc/pkg/translation"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Pipe for loading.
type Pipe struct{}

func (Pipe) String() string { return "loading frameworks" }

// Run the pipe.
func (Pipe) Run(ctx *context.Context) error {
	set, err := translation.LoadDir(ctx.Config.Frameworks)
	if err != nil {
		return err
	}
	ctx.Set = set

	var (
		mu    sync.Mutex
		skips pipe.ModuleSkips
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ctx.Parallelism)
	for _, cfg := range set.Configs() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(filepath.Dir(cfg.File), symbols.FileName)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				skips.Add(cfg.Module, "no "+symbols.FileName)
				return nil
			}
			model, err := symbols.Load(path)
			if err != nil {
				return err
			}
			if model.Framework != cfg.Framework {
				return errors.Errorf("%s describes framework %s, but %s is configured for %s",
					path, model.Framework, cfg.Module, cfg.Framework)
			}
			mu.Lock()
			ctx.Models[cfg.Module] = model
			mu.Unlock()
			log.WithFields(log.Fields{
				"module":  cfg.Module,
				"classes": len(model.Classes),
			}).Debug("Loaded symbol model")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Infof("loaded %d modules", len(ctx.Models))
	return skips.Err()
}
