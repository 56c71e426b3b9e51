package main

import (
	"os"

	"github.com/joho/godotenv"

	"brassworks.dev/fieldsmith/cmd"
)

func main() {
	// A .env file is optional; the API token may already be in the real
	// environment.
	_ = godotenv.Load()

	os.Exit(cmd.Execute())
}
