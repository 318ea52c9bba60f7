package main

import (
	"os"

	"github.com/wonny/bondlab/cmd/bondlab/commands"
)

// main is the entry point for the bondlab CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/bondlab [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
