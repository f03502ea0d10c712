// Package main is the entry point for the carewatch admin CLI.
package main

import (
	"os"

	"github.com/NasaVasa/carewatch/cmd/carewatchctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
