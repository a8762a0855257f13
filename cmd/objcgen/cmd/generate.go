/*
Copyright © 2026 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"path/filepath"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/go-objc/internal/config"
	"github.com/blacktop/go-objc/internal/context"
	"github.com/blacktop/go-objc/internal/pipeline"
	"github.com/blacktop/go-objc/pkg/symbols"
	"github.com/blacktop/go-objc/pkg/translation"
	"github.com/caarlos0/ctrlc"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("frameworks", "f", "frameworks", "Directory with one sub-directory per module")
	generateCmd.Flags().StringP("output", "o", "", "Output directory (default is the frameworks directory)")
	generateCmd.Flags().String("import-prefix", "", "Import path of the output directory")
	generateCmd.Flags().StringP("targets", "t", "", "Deployment targets (e.g. macos=11.0,ios=14.0)")
	generateCmd.Flags().IntP("parallel", "p", 0, "Number of modules to generate at once (default is the number of CPUs)")
	generateCmd.Flags().Bool("dry-run", false, "Generate without writing anything")
	generateCmd.Flags().Duration("timeout", 0, "Timeout for generation")
	generateCmd.Flags().BoolP("watch", "w", false, "Regenerate when a config or symbol model changes")
	viper.BindPFlag("generate.timeout", generateCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("generate.watch", generateCmd.Flags().Lookup("watch"))
}

// bindGenerateFlags binds the generation flags cmd has to their generate.*
// keys. Commands sharing the keys bind them when they run.
func bindGenerateFlags(cmd *cobra.Command) {
	for _, name := range []string{"frameworks", "output", "import-prefix", "targets", "parallel", "dry-run"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			viper.BindPFlag("generate."+name, f)
		}
	}
}

// runPipeline runs the generation pipeline once for the given modules.
func runPipeline(cfg *config.Config, only []string, skipWrite bool) (*context.Context, error) {
	ctx, cancel := context.NewWithTimeout(cfg.Generate, viper.GetDuration("generate.timeout"))
	defer cancel()
	ctx.Only = only
	ctx.SkipWrite = skipWrite
	start := time.Now()
	if err := ctrlc.Default.Run(ctx, func() error {
		return pipeline.Run(ctx)
	}); err != nil {
		return ctx, err
	}
	log.Infof("done in %s", time.Since(start).Truncate(time.Millisecond))
	return ctx, nil
}

// watch reruns the pipeline whenever an input of a module changes.
func watch(cfg *config.Config, only []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	set, err := translation.LoadDir(cfg.Generate.Frameworks)
	if err != nil {
		return err
	}
	for _, c := range set.Configs() {
		if err := watcher.Add(filepath.Dir(c.File)); err != nil {
			return err
		}
	}
	log.WithField("dir", cfg.Generate.Frameworks).Info("watching for changes")

	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if base := filepath.Base(event.Name); base != translation.FileName && base != symbols.FileName {
				continue
			}
			if event.Has(fsnotify.Chmod) {
				continue
			}
			log.Debugf("event: %s", event.String())
			// editors write a file in several steps
			pending = time.After(250 * time.Millisecond)
		case <-pending:
			pending = nil
			if _, err := runPipeline(cfg, only, false); err != nil {
				log.Error(err.Error())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watcher error")
		}
	}
}

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:     "generate [FRAMEWORK...]",
	Aliases: []string{"gen"},
	Short:   "Generate Go bindings",
	Long: `Generate Go bindings for the modules in the frameworks directory.

Each module lives in <frameworks>/<module>/ with a translation-config.toml and a
symbols.yaml. Naming frameworks or modules generates those and everything they
depend on.`,
	Example: heredoc.Doc(`
		# Generate every module under ./frameworks
		❯ objcgen generate
		# Generate Foundation and what it depends on for a macOS 11 deployment target
		❯ objcgen generate Foundation --targets macos=11.0
		# Regenerate while editing translation configs
		❯ objcgen generate --watch -V`),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		bindGenerateFlags(cmd)
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if _, err := runPipeline(cfg, args, false); err != nil {
			return err
		}
		if viper.GetBool("generate.watch") {
			return watch(cfg, args)
		}
		return nil
	},
}
