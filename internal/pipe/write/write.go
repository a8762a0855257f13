// Package write writes the generated bindings to the output directory.
package write

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/blacktop/go-objc/internal/context"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// Pipe for writing.
type Pipe struct{}

func (Pipe) String() string                 { return "writing bindings" }
func (Pipe) Skip(ctx *context.Context) bool { return ctx.SkipWrite }

// Path returns where the binding of module is written.
func Path(output, module string) string {
	return filepath.Join(output, module, module+".go")
}

// Run the pipe.
func (Pipe) Run(ctx *context.Context) error {
	for _, res := range ctx.Results() {
		path := Path(ctx.Config.Output, res.Module)
		l := log.WithFields(log.Fields{
			"path": path,
			"size": humanize.Bytes(uint64(len(res.Source))),
		})
		if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, res.Source) {
			l.Debug("unchanged")
			continue
		}
		if ctx.Config.DryRun {
			l.Info("would write")
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrapf(err, "failed to create %s", filepath.Dir(path))
		}
		if err := os.WriteFile(path, res.Source, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
		l.Info("wrote")
	}
	return nil
}
