package main

import (
	"os"

	"airline-reservation/cmd"
)

func main() {
	if err := cmd.Start(); err != nil {
		os.Exit(1)
	}
}
