// Package main provides the entry point for the breachlens analyzer. It
// turns batches of security-event records into deterministic, data-grounded
// incident reports, either one-shot from the CLI or as an HTTP service.
package main

import (
	"os"

	"breachlens/cmd/breachlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
