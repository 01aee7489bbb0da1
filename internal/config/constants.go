package config

import "path/filepath"

const SourceFileExt = ".lt"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".lt", ".lifetime"}

// IsSourceFile reports whether path carries a recognized extension.
func IsSourceFile(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range SourceFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// SettingsFileName is looked up next to the program being run.
const SettingsFileName = "lifetime.yaml"

// IsTestMode indicates if the program is running in test mode.
// This is set once at startup in main.go from LIFETIME_TEST_MODE.
var IsTestMode = false

// Entry point called by the runner.
const MainFuncName = "main"

// Built-in names installed into the root scope
const (
	PutsFuncName  = "puts"
	PutsParamName = "value"
	UnitName      = "unit"
)

// DefaultMaxDepth bounds the nesting of evaluator calls.
const DefaultMaxDepth = 10000
