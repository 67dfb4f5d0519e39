package main

import (
	"os"

	"github.com/afschrift-dev/afschrift/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
