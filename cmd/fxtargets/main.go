package main

import (
	"os"

	"github.com/rustyeddy/fxtargets/cmd/fxtargets/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
