package main

import (
	"os"

	"github.com/darkhz/bluezero/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
