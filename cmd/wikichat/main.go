package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"wikichat/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
