package main

import (
	"os"

	"github.com/jmoret/rosterbee/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
