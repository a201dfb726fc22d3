// Command sim-maps runs the demo maps against the reference physics world, serves their
// state over HTTP and optionally draws them in a raylib window.
package main

import (
	"fmt"
	"os"
	"runtime"
)

// raylib must be driven from the main OS thread.
func init() { runtime.LockOSThread() }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
