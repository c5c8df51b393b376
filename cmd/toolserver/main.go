// Command toolserver runs the MCP tool host used by mcpgemini.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/mcpgemini/toolhost"
)

func main() {
	verboseFlag := flag.Bool("v", false, "Print logs")
	addrFlag := flag.String("addr", "", "Listen address (default :$PORT, or :8001)")
	workspaceFlag := flag.String("workspace", "mcp_workspace", "Directory run_command executes in")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "toolserver: an MCP server with web search, weather, arithmetic and shell tools\n\n")
		fmt.Fprintf(os.Stderr, "Requires TAVILY_API_KEY and WEATHERAPI_KEY in the environment.\n")
		fmt.Fprintf(os.Stderr, "Serves SSE at /sse and streamable HTTP at /mcp.\n\n")
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := toolhost.ConfigFromEnv(os.Getenv)
	cfg.Workspace = *workspaceFlag
	server, err := toolhost.NewServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	addr := *addrFlag
	if addr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = toolhost.DefaultPort
		}
		addr = net.JoinHostPort("", port)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           toolhost.Handler(server),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	fmt.Fprintf(os.Stderr, "%s listening on %s (SSE at /sse, streamable HTTP at /mcp)\n", toolhost.Name, addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
