// Command vsv reports the separator, header flag and datasets inferred for delimited files and workbooks.
package main

import (
	"fmt"
	"os"
	"strings"
)

// Build information variables
var (
	// Set by compiler via -ldflags
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

func main() {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		// Only print usage for flag/argument errors, not for files that failed detection
		if isCobraFlagError(err) {
			rootCmd.PrintErrln(rootCmd.UsageString())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isCobraFlagError checks if the error is a Cobra CLI parsing error
func isCobraFlagError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "unknown flag") ||
		strings.Contains(errStr, "unknown shorthand flag") ||
		strings.Contains(errStr, "flag needs an argument") ||
		strings.Contains(errStr, "bad flag syntax") ||
		strings.Contains(errStr, "unknown command") ||
		strings.Contains(errStr, "requires at least")
}
