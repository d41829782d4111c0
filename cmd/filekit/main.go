package main

import (
	"os"

	"github.com/bethropolis/filekit/internal/app"
)

func main() {
	if err := app.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
