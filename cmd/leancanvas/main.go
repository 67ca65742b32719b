package main

import (
	"fmt"
	"os"

	"github.com/mithrel/leancanvas/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "leancanvas:", err)
		os.Exit(1)
	}
}
