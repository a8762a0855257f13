// Package colors is the palette objcgen prints with.
//
// Colors are disabled when stdout is not a terminal; fatih/color detects
// that. Init overrides the detection from the --color flag.
package colors

import "github.com/fatih/color"

// Init overrides the auto-detected color setting. A nil forceColor keeps
// the detected value.
func Init(forceColor *bool) {
	if forceColor != nil {
		color.NoColor = !*forceColor
	}
}

// Enabled returns true if colors are currently enabled.
func Enabled() bool {
	return !color.NoColor
}

var (
	// Title is a pipe's log title.
	Title = color.New(color.Bold).SprintFunc()
	// Module is a module or framework name.
	Module = color.New(color.Bold).SprintFunc()
	// Class is an Objective-C class or protocol name.
	Class = color.New(color.Bold, color.FgHiMagenta).SprintFunc()
	// Type is a type referenced from a declaration.
	Type = color.New(color.FgHiBlue).SprintFunc()
	OK   = color.New(color.Bold, color.FgHiGreen).SprintFunc()
	// Stale marks generated files that differ from what would be generated.
	Stale = color.New(color.Bold, color.FgHiRed).SprintFunc()
	// Note is secondary output such as skip reasons.
	Note = color.New(color.Faint).SprintFunc()
)
