package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mrlokans/lending/internal/config"
	"github.com/mrlokans/lending/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		cfg := config.NewConfig()
		if err := entrypoint.Migrate(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log.Printf("Schema is up to date at %s", cfg.Database.Path)

	case "sweep-overdue":
		cfg := config.NewConfig()
		marked, err := entrypoint.SweepOverdue(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Marked %d loans overdue\n", marked)

	case "version":
		fmt.Printf("lending %s (%s)\n", Version, Commit)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command>\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve          Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  migrate        Create or update the database schema\n")
	fmt.Fprintf(os.Stderr, "  sweep-overdue  Mark active loans past their due date as overdue\n")
	fmt.Fprintf(os.Stderr, "  version        Print version information\n")
	fmt.Fprintf(os.Stderr, "\nConfiguration is read from environment variables (PORT, HOST, DATABASE_PATH, ...).\n")
}
