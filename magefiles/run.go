//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Write builds the CLI and runs the full pipeline for a request file.
func Write(request string) error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "write", "--request", request)
}

// Runs lists the most recent recorded runs.
func Runs() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "runs", "list")
}

// Costs prints spend per operation across all recorded runs.
func Costs() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "costs")
}
