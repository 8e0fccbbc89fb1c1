package main

import (
	"os"

	"github.com/abhisek/careerquest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
