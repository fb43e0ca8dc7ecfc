package main

import (
	"os"

	"github.com/ayden94/caro-kann-docs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
