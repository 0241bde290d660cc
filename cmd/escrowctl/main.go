package main

import (
	"marketplace_escrow/cmd/escrowctl/commands"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
