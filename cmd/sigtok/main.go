// Package main provides the entry point for sigtok.
//
// sigtok signs data into content-addressed tokens and reads them back.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/sigtok-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
