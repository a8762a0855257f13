// Package graph orders the modules to generate by their dependencies.
package graph

import (
	"strings"

	"github.com/apex/log"
	"github.com/blacktop/go-objc/internal/context"
	"github.com/pkg/errors"
)

// Pipe for dependency ordering.
type Pipe struct{}

func (Pipe) String() string { return "resolving dependencies" }

// Run the pipe.
func (Pipe) Run(ctx *context.Context) error {
	var (
		order []string
		err   error
	)
	if len(ctx.Only) > 0 {
		order, err = ctx.Set.Closure(ctx.Only...)
	} else {
		order, err = ctx.Set.Order()
	}
	if err != nil {
		return err
	}

	ctx.Modules = ctx.Modules[:0]
	for _, m := range order {
		if _, ok := ctx.Models[m]; !ok {
			log.WithField("module", m).Debug("no symbol model, not generating")
			continue
		}
		ctx.Modules = append(ctx.Modules, m)
		if cfg, ok := ctx.Set.Module(m); ok && len(cfg.Dependencies()) > 0 {
			log.WithField("module", m).Debugf("depends on %s", strings.Join(cfg.Dependencies(), ", "))
		}
	}
	if len(ctx.Modules) == 0 {
		return errors.New("nothing to generate")
	}
	log.Infof("generation order: %s", strings.Join(ctx.Modules, ", "))
	return nil
}
