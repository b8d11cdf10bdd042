package main

import (
	"flag"
	"fmt"
	"guessd/internal/di"
	"guessd/internal/structures"
	"os"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yml", "path to the YAML config file")
	flag.StringVar(&flags.EnvFile, "env", ".env", "optional .env file with secrets such as the bot token")
	flag.BoolVar(&flags.DebugMode, "debug", false, "echo logs to the console and enable bot API debug output")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "guessd: %s\n", err)
		os.Exit(1)
	}
}
