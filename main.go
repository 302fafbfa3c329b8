// ABOUTME: Entry point for lrclib-match
// ABOUTME: Wires the cobra root command and its four subcommands

package main

import (
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
