// Package logging logs the start of each pipe and indents what it logs.
package logging

import (
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/blacktop/go-objc/internal/colors"
	"github.com/blacktop/go-objc/internal/context"
	"github.com/blacktop/go-objc/internal/pipeline/middleware"
)

const (
	DefaultInitialPadding = 3
	DefaultExtraPadding   = 7
)

// Log pretty prints the given action and its title.
func Log(title string) middleware.Middleware {
	return func(next middleware.Action) middleware.Action {
		return func(ctx *context.Context) error {
			defer func() {
				cli.Default.Padding = DefaultInitialPadding
			}()
			cli.Default.Padding = DefaultInitialPadding
			log.Info(colors.Title(title))
			cli.Default.Padding = DefaultExtraPadding
			return next(ctx)
		}
	}
}

// PadLog logs the title of a nested action one level deeper.
func PadLog(title string) middleware.Middleware {
	return func(next middleware.Action) middleware.Action {
		return func(ctx *context.Context) error {
			defer func() {
				cli.Default.Padding = DefaultExtraPadding
			}()
			cli.Default.Padding = DefaultExtraPadding
			log.Info(colors.Title(title))
			cli.Default.Padding = DefaultExtraPadding * 2
			return next(ctx)
		}
	}
}
