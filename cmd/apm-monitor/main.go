// Package main provides the apm-monitor CLI application.
//
// APM Monitor is an input-rate monitoring tool: it tracks actions per
// minute over a sliding window, accounts active session time across pauses,
// and persists per-session JSON reports with a tag-grouped HTML dashboard.
package main

import (
	"fmt"
	"os"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
