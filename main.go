package main

import (
	"os"

	"github.com/suites-dev/docroute/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
