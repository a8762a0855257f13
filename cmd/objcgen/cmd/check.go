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
	"bytes"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/aymanbagabas/go-udiff"
	"github.com/blacktop/go-objc/internal/colors"
	"github.com/blacktop/go-objc/internal/config"
	"github.com/blacktop/go-objc/internal/pipe/write"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("frameworks", "f", "frameworks", "Directory with one sub-directory per module")
	checkCmd.Flags().StringP("output", "o", "", "Output directory (default is the frameworks directory)")
	checkCmd.Flags().StringP("targets", "t", "", "Deployment targets (e.g. macos=11.0,ios=14.0)")
	checkCmd.Flags().BoolP("skipped", "s", false, "List every skipped declaration")
	checkCmd.Flags().BoolP("diff", "d", false, "Show how out of date bindings differ")
	viper.BindPFlag("check.skipped", checkCmd.Flags().Lookup("skipped"))
	viper.BindPFlag("check.diff", checkCmd.Flags().Lookup("diff"))
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [FRAMEWORK...]",
	Short: "Check that configs load and generated bindings are up to date",
	Long: `Load every translation config and symbol model, generate the bindings in
memory and compare them with the files on disk.`,
	Example: heredoc.Doc(`
		# Fail if any binding is out of date
		❯ objcgen check
		# Show what changed in Foundation's binding and why declarations were skipped
		❯ objcgen check Foundation --diff --skipped`),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		bindGenerateFlags(cmd)
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		ctx, err := runPipeline(cfg, args, true)
		if err != nil {
			return err
		}

		var stale []string
		for _, res := range ctx.Results() {
			path := write.Path(cfg.Generate.Output, res.Module)
			status := colors.OK("up to date")
			old, err := os.ReadFile(path)
			outdated := err != nil || !bytes.Equal(old, res.Source)
			if outdated {
				status = colors.Stale("out of date")
				stale = append(stale, res.Module)
			}
			fmt.Printf("%s %s (%d skipped)\n", colors.Module(res.Module), status, len(res.Skipped))
			if outdated && viper.GetBool("check.diff") {
				if err := printDiff(path, old, res.Source); err != nil {
					return err
				}
			}
			if viper.GetBool("check.skipped") {
				for _, s := range res.Skipped {
					fmt.Println(colors.Note("    " + s.String()))
				}
			}
		}
		if len(stale) > 0 {
			return errors.Errorf("%d modules out of date, run `objcgen generate`", len(stale))
		}
		return nil
	},
}

// printDiff prints the unified diff between a binding on disk and its
// regenerated source.
func printDiff(path string, old, generated []byte) error {
	diff := udiff.Unified(path, path+" (generated)", string(old), string(generated))
	if !colors.Enabled() {
		fmt.Print(diff)
		return nil
	}
	return quick.Highlight(os.Stdout, diff, "diff", "terminal256", "nord")
}
