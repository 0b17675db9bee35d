// main is the entry point for the devpulse CLI.
package main

import (
	"fmt"
	"os"

	"github.com/devpulse/devpulse/cmd"
	"github.com/devpulse/devpulse/internal/iocache"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run keeps the store shutdown deferred so it executes before os.Exit.
func run() error {
	defer iocache.CloseStores()
	return cmd.Execute()
}
