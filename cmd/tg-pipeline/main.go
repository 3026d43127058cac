package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/rkata-ai/tg-pipeline/internal/cli"
)

func main() {
	// Credentials and connection settings may live in a local .env file,
	// mirroring the deployment layout. Absence is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
