package main

import (
	"os"

	"github.com/couriermesh/core-go/cmd/couriermesh/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
