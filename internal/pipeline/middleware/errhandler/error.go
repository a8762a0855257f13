// Package errhandler turns pipe skips into recorded module skips.
package errhandler

import (
	"github.com/apex/log"
	"github.com/blacktop/go-objc/internal/context"
	"github.com/blacktop/go-objc/internal/pipe"
	"github.com/blacktop/go-objc/internal/pipeline/middleware"
)

// Handle swallows skip errors from action. Skipped modules are logged and
// recorded on the context; any other error is returned.
func Handle(action middleware.Action) middleware.Action {
	return func(ctx *context.Context) error {
		err := action(ctx)
		if err == nil {
			return nil
		}
		skips, ok := pipe.SkipsOf(err)
		if !ok {
			return err
		}
		for _, s := range skips {
			if s.Module == "" {
				log.WithField("reason", s.Reason).Warn("pipe skipped")
				continue
			}
			ctx.SkipModule(s.Module, s.Reason)
			log.WithFields(log.Fields{
				"module": s.Module,
				"reason": s.Reason,
			}).Warn("module skipped")
		}
		return nil
	}
}
