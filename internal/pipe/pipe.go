// Package pipe holds what the generation pipes share.
package pipe

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrSkip reports that a pipe left a module out, and why. Without a Module
// the whole pipe was skipped.
type ErrSkip struct {
	Module string
	Reason string
}

func (e ErrSkip) Error() string {
	if e.Module == "" {
		return e.Reason
	}
	return e.Module + ": " + e.Reason
}

// Skip skips the whole pipe with the given reason.
func Skip(reason string) ErrSkip {
	return ErrSkip{Reason: reason}
}

// SkipModule leaves module out of what the pipe produces.
func SkipModule(module, reason string) ErrSkip {
	return ErrSkip{Module: module, Reason: reason}
}

// SkipModulef is SkipModule with a formatted reason.
func SkipModulef(module, format string, args ...any) ErrSkip {
	return SkipModule(module, fmt.Sprintf(format, args...))
}

// Skipped is the error of a pipe that left several modules out.
type Skipped []ErrSkip

func (s Skipped) Error() string {
	msgs := make([]string, len(s))
	for i, e := range s {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, ", ")
}

// SkipsOf returns the skips err carries, if it is or wraps a skip.
func SkipsOf(err error) ([]ErrSkip, bool) {
	var many Skipped
	if errors.As(err, &many) {
		return many, true
	}
	var one ErrSkip
	if errors.As(err, &one) {
		return []ErrSkip{one}, true
	}
	return nil, false
}

// IsSkip returns true if the error is or wraps a skip.
func IsSkip(err error) bool {
	_, ok := SkipsOf(err)
	return ok
}

// ModuleSkips collects the modules a pipe leaves out so it can finish its
// work and report them all at once. It is safe for concurrent use.
type ModuleSkips struct {
	mu   sync.Mutex
	byID map[string]string
}

// Add records module as skipped. The first reason given for a module is kept.
func (s *ModuleSkips) Add(module, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byID == nil {
		s.byID = make(map[string]string)
	}
	if _, ok := s.byID[module]; !ok {
		s.byID[module] = reason
	}
}

// Err returns the recorded skips sorted by module, or nil if none happened.
func (s *ModuleSkips) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.byID) == 0 {
		return nil
	}
	out := make(Skipped, 0, len(s.byID))
	for m, r := range s.byID {
		out = append(out, SkipModule(m, r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Module < out[j].Module })
	return out
}
