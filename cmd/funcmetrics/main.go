package main

import (
	"os"

	"funcmetrics/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
