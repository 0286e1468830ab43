package main

import (
	"os"

	"github.com/voyago/tripgraph/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
