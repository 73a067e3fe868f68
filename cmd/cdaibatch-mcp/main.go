// Command cdaibatch-mcp is a Model Context Protocol server that exposes
// the CDAI batch pipeline to AI assistants over stdio.
//
// # Configuration for Claude Desktop
//
// Add to claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "cdaibatch": {
//	      "command": "cdaibatch-mcp"
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - process_batch: fill one application per roster row and archive the results
//   - validate_template: check a template and report its page count
//   - preview_roster: show how roster columns map onto the known fields
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/lvillar/cdaibatch/config"
	"github.com/lvillar/cdaibatch/mcp"
)

var (
	version   = "dev"     // set by build flags
	buildTime = "unknown" // set by build flags
)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cdaibatch-mcp: %v\n", err)
		os.Exit(1)
	}
	if version != "dev" {
		cfg.Version = version
	}

	// Stdout carries the MCP protocol stream; log records go to stderr
	// in debug mode and are dropped otherwise.
	if cfg.IsDebug() {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	srv, err := mcp.NewServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cdaibatch-mcp: %v\n", err)
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "cdaibatch-mcp: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("CDAI batch MCP server\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
