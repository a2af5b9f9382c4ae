package main

import (
	"os"

	"github.com/sam16vis/go-replay-inspector/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
