package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/slide-tools-mcp/internal/config"
	"github.com/ironsheep/slide-tools-mcp/internal/server"
	"github.com/ironsheep/slide-tools-mcp/internal/slide"
	"github.com/ironsheep/slide-tools-mcp/internal/wsi"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var configPath string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version", "-v", "version":
			fmt.Printf("slide-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  OpenSlide:  %s\n", slide.OpenSlideVersion())
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "--config", "-c":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config requires a file path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown option: %s\n", args[i])
			os.Exit(2)
		}
	}

	cfg, err := config.FromEnv(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr; stdout is for MCP protocol
	logger := cfg.NewLogger()
	logger.Debug("starting slide MCP server",
		"version", Version, "build_time", BuildTime, "commit", GitCommit,
		"backends", cfg.Backends, "workers", cfg.Extract.Workers)

	opener, err := cfg.BuildOpener(logger)
	if err != nil {
		logger.Error("failed to configure backends", "error", err)
		os.Exit(1)
	}
	if len(opener.Backends()) == 0 {
		logger.Error("no slide backend is available", "configured", cfg.Backends)
		os.Exit(1)
	}

	svc := wsi.New(opener, cfg.BuildExtractor(logger), logger)
	srv := server.New(svc, logger)
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("slide-tools-mcp - MCP server for whole-slide image region extraction")
	fmt.Println()
	fmt.Println("Usage: slide-tools-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c FILE  Load settings from a YAML file")
	fmt.Println("  --version, -v      Print version information")
	fmt.Println("  --help, -h         Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=FILE     Config file when --config is not given\n", config.EnvConfigPath)
	fmt.Printf("  %s=debug Log level (debug, info, warn, error)\n", config.EnvLogLevel)
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
