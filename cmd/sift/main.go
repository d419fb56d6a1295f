// Command sift analyzes strings into content-addressed records and serves
// them over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/sift/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sift: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
