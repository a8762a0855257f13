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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blacktop/go-objc/pkg/symbols"
	"github.com/blacktop/go-objc/pkg/translation"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(jsonschemaCmd)
	jsonschemaCmd.Flags().StringP("output", "o", "-", "Where to save the JSONSchema file")
	viper.BindPFlag("jsonschema.output", jsonschemaCmd.Flags().Lookup("output"))
}

// jsonschemaCmd represents the jsonschema command
var jsonschemaCmd = &cobra.Command{
	Use:           "jsonschema [config|symbols]",
	Aliases:       []string{"schema"},
	Short:         "Output the JSON schema of translation configs or symbol models",
	Args:          cobra.MaximumNArgs(1),
	ValidArgs:     []string{"config", "symbols"},
	SilenceUsage:  true,
	SilenceErrors: true,
	Hidden:        true,
	RunE: func(cmd *cobra.Command, args []string) error {
		which := "config"
		if len(args) > 0 {
			which = args[0]
		}

		var schema *jsonschema.Schema
		switch which {
		case "config":
			schema = jsonschema.Reflect(&translation.Config{})
			schema.Description = translation.FileName + " definition file"
		case "symbols":
			schema = jsonschema.Reflect(&symbols.Module{})
			schema.Description = symbols.FileName + " symbol model"
		default:
			return fmt.Errorf("unknown schema %q (want config or symbols)", which)
		}

		bts, err := json.MarshalIndent(schema, "	", "	")
		if err != nil {
			return fmt.Errorf("failed to create jsonschema: %w", err)
		}
		output := viper.GetString("jsonschema.output")
		if output == "-" || output == "" {
			fmt.Println(string(bts))
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return fmt.Errorf("failed to write jsonschema file: %w", err)
		}
		if err := os.WriteFile(output, bts, 0o666); err != nil {
			return fmt.Errorf("failed to write jsonschema file: %w", err)
		}
		return nil
	},
}
