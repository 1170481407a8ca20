package core

import (
	"github.com/xyproto/env/v2"
)

// Strict:
// When Strict == false, an unrecognized literal pairing or an AST shape the
// printer does not implement is reported to the diagnostics of the unit and a
// None placeholder is printed in its place, so one pass can collect every
// issue in the unit before the caller decides to halt.
// When Strict == true, the driver aborts the unit after the declaration in
// which the first error-severity diagnostic appeared.

type Settings struct {
	IndentWidth  int    // Number of spaces per indentation level
	Newline      string // Line terminator for the generated source
	Strict       bool   // Abort the unit on the first error diagnostic
	OutputPrefix string // Prefix for the output files
}

func NewSettings() *Settings {
	return &Settings{
		IndentWidth:  4,     //
		Newline:      "\n",  //
		Strict:       false, //
		OutputPrefix: "",    // e.g. "output/main"
	}
}

// NewSettingsFromEnv applies environment overrides on top of the defaults.
func NewSettingsFromEnv() *Settings {
	settings := NewSettings()
	settings.IndentWidth = env.Int("FABLE_PY_INDENT", settings.IndentWidth)
	settings.Strict = env.Bool("FABLE_PY_STRICT")
	if prefix := env.Str("FABLE_PY_OUTPUT"); prefix != "" {
		settings.OutputPrefix = prefix
	}
	return settings
}
