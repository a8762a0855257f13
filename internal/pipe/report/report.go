// Package report contains the reporting pipe.
package report

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/apex/log"
	"github.com/blacktop/go-objc/internal/context"
	"github.com/blacktop/go-objc/internal/pipeline/middleware"
	"github.com/blacktop/go-objc/internal/pipeline/middleware/errhandler"
	"github.com/blacktop/go-objc/internal/pipeline/middleware/logging"
	"github.com/blacktop/go-objc/internal/pipeline/middleware/skip"
	"github.com/blacktop/go-objc/pkg/bindgen"
	"github.com/pkg/errors"
)

// Reporter should be implemented by pipes that report on generated bindings.
type Reporter interface {
	fmt.Stringer
	Report(ctx *context.Context) error
}

var reporters = []Reporter{
	summary{},
	missing{},
}

// Pipe that reports on what was generated.
type Pipe struct{}

func (Pipe) String() string { return "reporting" }

func (Pipe) Skip(ctx *context.Context) bool {
	return len(ctx.Results()) == 0
}

// Run the pipe.
func (Pipe) Run(ctx *context.Context) error {
	for _, reporter := range reporters {
		if err := middleware.Chain(
			reporter.Report,
			skip.Maybe(reporter),
			logging.PadLog(reporter.String()),
			errhandler.Handle,
		)(ctx); err != nil {
			return errors.Wrapf(err, "%s: failed to report", reporter.String())
		}
	}
	return nil
}

type summary struct{}

func (summary) String() string { return "summary" }

func (summary) Report(ctx *context.Context) error {
	var skipped int
	for _, res := range ctx.Results() {
		skipped += len(res.Skipped)
	}
	log.WithFields(log.Fields{
		"modules":         len(ctx.Results()),
		"skipped":         skipped,
		"modules skipped": len(ctx.SkippedModules()),
	}).Info("generated")
	return nil
}

// maxMissing is how many missing types are listed.
const maxMissing = 10

type missing struct{}

func (missing) String() string { return "missing types" }

func (missing) Skip(ctx *context.Context) bool {
	return len(MissingTypes(ctx.Results())) == 0
}

func (missing) Report(ctx *context.Context) error {
	types := MissingTypes(ctx.Results())
	if len(types) > maxMissing {
		types = types[:maxMissing]
	}
	for _, t := range types {
		log.WithField("declarations", t.Count).Warn(t.Name)
	}
	return nil
}

var unknownType = regexp.MustCompile(`unknown type "([^"]+)"`)

// Missing is a type no loaded module declares.
type Missing struct {
	Name string
	// Count is the number of declarations skipped because of it.
	Count int
}

// MissingTypes counts the unknown types declarations were skipped for, most
// common first.
func MissingTypes(results []*bindgen.Result) []Missing {
	counts := make(map[string]int)
	for _, res := range results {
		for _, s := range res.Skipped {
			if m := unknownType.FindStringSubmatch(s.Reason); m != nil {
				counts[m[1]]++
			}
		}
	}
	out := make([]Missing, 0, len(counts))
	for name, n := range counts {
		out = append(out, Missing{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
