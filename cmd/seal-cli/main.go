package main

import (
	"os"

	"sealgate/cmd/seal-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
