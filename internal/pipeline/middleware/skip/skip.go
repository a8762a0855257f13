// Package skip can skip an entire pipe.
package skip

import (
	"fmt"

	"github.com/apex/log"
	"github.com/blacktop/go-objc/internal/context"
	"github.com/blacktop/go-objc/internal/pipeline/middleware"
)

// Skipper is a pipe or reporter with nothing to do in some runs.
type Skipper interface {
	// Skip returns true if there is nothing to do.
	Skip(ctx *context.Context) bool
	fmt.Stringer
}

// Maybe returns a middleware that does not run the action when p is a
// Skipper asking to be skipped. Other values leave the action as is.
func Maybe(p any) middleware.Middleware {
	skipper, ok := p.(Skipper)
	if !ok {
		return func(next middleware.Action) middleware.Action { return next }
	}
	return func(next middleware.Action) middleware.Action {
		return func(ctx *context.Context) error {
			if skipper.Skip(ctx) {
				log.WithField("pipe", skipper.String()).Debug("nothing to do")
				return nil
			}
			return next(ctx)
		}
	}
}
