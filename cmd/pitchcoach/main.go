package main

import (
	"os"

	"github.com/pitchlab/pitchcoach/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
