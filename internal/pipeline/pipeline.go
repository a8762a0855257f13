// Package pipeline lists the pipes objcgen runs, in order.
package pipeline

import (
	"fmt"

	"github.com/blacktop/go-objc/internal/context"
	"github.com/blacktop/go-objc/internal/pipe/bind"
	"github.com/blacktop/go-objc/internal/pipe/gate"
	"github.com/blacktop/go-objc/internal/pipe/graph"
	"github.com/blacktop/go-objc/internal/pipe/load"
	"github.com/blacktop/go-objc/internal/pipe/report"
	"github.com/blacktop/go-objc/internal/pipe/write"
	"github.com/blacktop/go-objc/internal/pipeline/middleware"
	"github.com/blacktop/go-objc/internal/pipeline/middleware/errhandler"
	"github.com/blacktop/go-objc/internal/pipeline/middleware/logging"
	"github.com/blacktop/go-objc/internal/pipeline/middleware/skip"
	"github.com/pkg/errors"
)

// Piper defines a pipe, which can be part of a pipeline (a series of pipes).
type Piper interface {
	fmt.Stringer

	// Run the pipe
	Run(ctx *context.Context) error
}

// Pipeline contains all pipe implementations in order.
var Pipeline = []Piper{
	load.Pipe{},
	graph.Pipe{},
	gate.Pipe{},
	bind.Pipe{},
	write.Pipe{},
	report.Pipe{},
}

// Run runs the pipeline, stopping at the first pipe that fails.
func Run(ctx *context.Context) error {
	for _, pipe := range Pipeline {
		if err := middleware.Chain(
			pipe.Run,
			skip.Maybe(pipe),
			logging.Log(pipe.String()),
			errhandler.Handle,
		)(ctx); err != nil {
			return errors.Wrap(err, pipe.String())
		}
	}
	return nil
}
