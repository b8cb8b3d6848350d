package main

import (
	"os"

	"emergencyHub/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
