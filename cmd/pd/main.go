// Package main is the entry point for the propdesk CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/propdesk/backoffice/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
