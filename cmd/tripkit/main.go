package main

import (
	"os"

	"github.com/amra/tripkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
