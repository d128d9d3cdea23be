// Command screenctl is an operator CLI for the screening backend: it replays
// mock call completions, prints candidate booking links and mints service tokens.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
