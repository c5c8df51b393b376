package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/mcpgemini/mcpapp"
)

func main() {
	verboseFlag := flag.Bool("v", false, "Print logs")
	configFlag := flag.String("config", "", "YAML configuration file")
	modelFlag := flag.String("model", "", "Gemini model name (default gemini-2.5-flash)")
	transportFlag := flag.String("transport", "", "MCP transport: sse or streamable (default sse)")
	maxRoundsFlag := flag.Int("max-rounds", 0, "Tool rounds serviced per query (default 1)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "mcpgemini: chat with Gemini using the tools of an MCP server\n\n")
		fmt.Fprintf(os.Stderr, "Requires GEMINI_API_KEY (or GOOGLE_API_KEY) in the environment.\n")
		fmt.Fprintf(os.Stderr, "Queries given after the server URL are asked before reading standard input.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <server_url> [queries...]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := mcpapp.DefaultConfig()
	if *configFlag != "" {
		loaded, err := mcpapp.LoadConfig(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = *loaded
	}
	cfg.Merge(&mcpapp.Config{
		ServerURL: args[0],
		APIKey:    mcpapp.APIKeyFromEnv(os.Getenv),
		Model:     *modelFlag,
		Transport: *transportFlag,
		MaxRounds: *maxRoundsFlag,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := mcpapp.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = app.Run(ctx, os.Stdout, os.Stdin, args[1:]...)
	if errors.Is(err, context.Canceled) {
		// interrupted by a signal
		return
	}
	if err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "\nAn error occurred: %v\n", err)
		os.Exit(1)
	}
}
