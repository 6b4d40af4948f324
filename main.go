package main

import (
	"os"

	"github.com/forgeboard/server/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
