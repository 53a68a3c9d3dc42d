package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/refwork/refctl/internal/cli"
	"github.com/refwork/refctl/internal/logging"
)

var version = "dev"

func main() {
	_ = godotenv.Load()
	logging.ConfigureRuntime()
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
