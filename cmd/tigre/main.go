package main

import (
	"os"

	"github.com/rustyeddy/tigre/cmd/tigre/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
