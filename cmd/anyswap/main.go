package main

import (
	"os"

	"github.com/lugondev/go-anyswap/cmd/anyswap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
