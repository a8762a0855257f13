//go:build darwin && cgo && objc

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
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/go-objc/internal/colors"
	"github.com/blacktop/go-objc/internal/objc"
	"github.com/blacktop/go-objc/pkg/symbols"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringP("image", "i", "", "Load this image and describe every class it defines")
	inspectCmd.Flags().BoolP("yaml", "y", false, "Print the declarations as a symbol model")
	viper.BindPFlag("inspect.image", inspectCmd.Flags().Lookup("image"))
	viper.BindPFlag("inspect.yaml", inspectCmd.Flags().Lookup("yaml"))
}

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [CLASS]",
	Short: "Describe classes as the Objective-C runtime sees them",
	Example: heredoc.Doc(`
		# Describe a class of an already loaded framework
		❯ objcgen inspect NSObject
		# Describe every class AppKit defines as a symbol model
		❯ objcgen inspect --yaml --image /System/Library/Frameworks/AppKit.framework/AppKit`),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		image := viper.GetString("inspect.image")

		var classes []symbols.Class
		switch {
		case image != "" && len(args) == 0:
			mod, err := objc.DescribeImage(image)
			if err != nil {
				return err
			}
			if viper.GetBool("inspect.yaml") {
				return mod.Write(os.Stdout)
			}
			classes = mod.Classes
		case len(args) == 1:
			if image != "" {
				img, err := objc.LoadImage(image)
				if err != nil {
					return err
				}
				defer img.Close()
			}
			c, err := objc.Describe(args[0])
			if err != nil {
				return err
			}
			if viper.GetBool("inspect.yaml") {
				enc := yaml.NewEncoder(os.Stdout)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(c)
			}
			classes = append(classes, *c)
		default:
			return fmt.Errorf("give a class name or --image")
		}

		log.Debugf("describing %d classes", len(classes))
		for _, c := range classes {
			printClass(c)
		}
		return nil
	},
}

func printClass(c symbols.Class) {
	fmt.Printf("@interface %s", colors.Class(c.Name))
	if c.Super != "" {
		fmt.Printf(" : %s", colors.Type(c.Super))
	}
	if len(c.Protocols) > 0 {
		fmt.Printf(" <%s>", colors.Type(strings.Join(c.Protocols, ", ")))
	}
	fmt.Println()
	for _, m := range c.Methods {
		fmt.Printf("%s", m)
		if f := m.Family(); f.ReturnsRetained() {
			fmt.Printf(" %s", colors.Note("// "+f.String()))
		}
		fmt.Println()
	}
	fmt.Println("@end")
	fmt.Println()
}
