package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"

	"bloglist/cmd/blogctl/commands"
)

func main() {
	_ = godotenv.Load()
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
