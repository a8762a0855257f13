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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/go-objc/internal/magic"
	"github.com/blacktop/go-objc/pkg/symbols"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("arch", "a", "", "Which architecture to use for fat/universal MachO")
	scanCmd.Flags().StringP("merge", "m", "", "Merge into an existing symbols.yaml")
	scanCmd.Flags().StringP("output", "o", "", "Where to write the symbol model (default is stdout)")
	viper.BindPFlag("scan.arch", scanCmd.Flags().Lookup("arch"))
	viper.BindPFlag("scan.merge", scanCmd.Flags().Lookup("merge"))
	viper.BindPFlag("scan.output", scanCmd.Flags().Lookup("output"))
}

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <MACHO|FRAMEWORK>",
	Short: "Import a symbol model from a framework binary",
	Example: heredoc.Doc(`
		# Import Foundation's classes and protocols
		❯ objcgen scan /System/Library/Frameworks/Foundation.framework -o frameworks/foundation/symbols.yaml
		# Add what a newer SDK declares to a curated model
		❯ objcgen scan Foundation.framework --merge frameworks/foundation/symbols.yaml`),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Clean(args[0])

		kind, err := magic.Detect(path)
		if err != nil {
			return err
		}

		var version string
		binary := path
		switch kind {
		case magic.Bundle:
			if binary, err = magic.BundleBinary(path); err != nil {
				return err
			}
			if version, err = symbols.BundleVersion(path); err != nil {
				log.WithError(err).Warn("framework version unknown")
			}
		case magic.MachO, magic.Fat:
		default:
			return fmt.Errorf("cannot scan %s: %s is a %s", path, filepath.Base(path), kind)
		}

		log.WithField("binary", binary).Info("Scanning")
		s := spinner.New(spinner.CharSets[38], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Prefix = color.BlueString("   • Importing ObjC metadata... ")
		s.Start()
		mod, err := symbols.FromMachO(binary, viper.GetString("scan.arch"))
		s.Stop()
		if err != nil {
			return err
		}
		if version != "" {
			mod.Version = version
		}
		log.Infof("found %d classes and %d protocols", len(mod.Classes), len(mod.Protocols))

		if existing := viper.GetString("scan.merge"); existing != "" {
			have, err := symbols.Load(existing)
			if err != nil {
				return err
			}
			if !strings.EqualFold(have.Framework, mod.Framework) {
				return fmt.Errorf("%s describes framework %s, not %s", existing, have.Framework, mod.Framework)
			}
			have.Merge(mod)
			if version != "" {
				have.Version = version
			}
			mod = have
		}

		output := viper.GetString("scan.output")
		if output == "" && viper.GetString("scan.merge") != "" {
			output = viper.GetString("scan.merge")
		}
		if output == "" || output == "-" {
			return mod.Write(os.Stdout)
		}
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		if err := mod.Write(f); err != nil {
			return err
		}
		log.Infof("Created %s", output)
		return nil
	},
}
