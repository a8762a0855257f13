// Package gate drops the modules that are unavailable on every deployment
// target.
package gate

import (
	"github.com/apex/log"
	"github.com/blacktop/go-objc/internal/context"
	"github.com/blacktop/go-objc/internal/pipe"
	"github.com/pkg/errors"
)

// Pipe for availability gating.
type Pipe struct{}

func (Pipe) String() string                 { return "gating by deployment target" }
func (Pipe) Skip(ctx *context.Context) bool { return len(ctx.Config.Targets) == 0 }

// Run the pipe.
func (Pipe) Run(ctx *context.Context) error {
	_, reasons, err := ctx.Set.Available(ctx.Config.Targets)
	if err != nil {
		return err
	}
	var skips pipe.ModuleSkips
	kept := ctx.Modules[:0]
	for _, m := range ctx.Modules {
		if reason, ok := reasons[m]; ok {
			skips.Add(m, reason)
			continue
		}
		kept = append(kept, m)
	}
	ctx.Modules = kept
	if len(ctx.Modules) == 0 {
		return errors.Errorf("no module is available on %s", ctx.Config.Targets)
	}
	log.Debugf("%d modules available", len(ctx.Modules))
	return skips.Err()
}
