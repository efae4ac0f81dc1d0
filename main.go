package main

import (
	"os"

	"github.com/FACorreiaa/go-tripplanner/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
