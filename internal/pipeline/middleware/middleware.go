// Package middleware define middlewares for pipes.
package middleware

import "github.com/blacktop/go-objc/internal/context"

// Action is one step of a generation run, such as a pipe or a reporter.
type Action func(ctx *context.Context) error

// Middleware decorates an action.
type Middleware func(next Action) Action

// Chain wraps action in mws. The first middleware is the outermost.
func Chain(action Action, mws ...Middleware) Action {
	for i := len(mws) - 1; i >= 0; i-- {
		action = mws[i](action)
	}
	return action
}
