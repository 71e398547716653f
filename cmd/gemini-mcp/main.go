// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bucksibi/gemini-mcp/internal/config"
	"github.com/Bucksibi/gemini-mcp/internal/logging"
	"github.com/Bucksibi/gemini-mcp/internal/server"
)

var (
	address     = flag.String("address", "", "The address to bind the server to (sse mode)")
	port        = flag.Int("port", 0, "The port to bind the server to (sse mode)")
	transport   = flag.String("transport", "", "Transport mode: sse or stdio")
	logLevel    = flag.String("log-level", "", "Logging level: debug, info, warn, error, fatal")
	logFile     = flag.String("log-file", "", "Log file path (default: alongside the executable in stdio mode)")
	version     = flag.Bool("version", false, "Show version information and exit")
	baseURL     = flag.String("base-url", "", "Custom base URL for the Gemini API (e.g. a proxy)")
	geminiModel = flag.String("model", "", "Default Gemini model for tool calls (default: gemini-2.5-flash)")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg := loadConfig()

	// Show version and exit if requested
	if *version {
		log.Printf("%s version %s", cfg.Server.Name, cfg.Server.Version)
		os.Exit(0)
	}

	// Create a context that will be cancelled on interrupt signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the application
	app, err := createApp(cfg)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Start the application
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wait for termination signal or server exit (e.g. stdin closed in stdio mode)
	if exitCode := waitForShutdown(cancel, app); exitCode != 0 {
		os.Exit(exitCode)
	}
}

// loadConfig loads configuration from environment and command line flags
func loadConfig() *config.Config {
	// Start with defaults
	cfg := config.DefaultConfig()

	// Override with environment variables
	config.FromEnv(cfg)

	// Override with command-line flags
	applyCommandLineFlagsToConfig(cfg)

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// applyCommandLineFlagsToConfig applies command line flags to the configuration
func applyCommandLineFlagsToConfig(cfg *config.Config) {
	if *address != "" {
		cfg.Server.Address = *address
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *transport != "" {
		cfg.Server.TransportMode = *transport
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Logging.FilePath = *logFile
	}
	if *baseURL != "" {
		cfg.Gemini.BaseURL = *baseURL
	}
	if *geminiModel != "" {
		cfg.Gemini.DefaultModel = *geminiModel
	}
}

// Application represents the running application
type Application struct {
	server *server.MCPServer
	logger *logging.Logger
}

// createApp creates a new application instance
func createApp(cfg *config.Config) (*Application, error) {
	// Create the MCP server; it constructs its own Gemini client
	mcpServer, err := server.NewMCPServer(cfg, nil)
	if err != nil {
		return nil, err
	}

	// Get the default logger that was configured by the server
	logger := logging.GetDefaultLogger()

	return &Application{
		server: mcpServer,
		logger: logger,
	}, nil
}

// Start starts the application
func (a *Application) Start(ctx context.Context) error {
	if err := a.server.Start(ctx); err != nil {
		return err
	}
	a.logger.Infof("MCP server started")
	return nil
}

// Stop stops the application
func (a *Application) Stop() error {
	if err := a.server.Stop(); err != nil {
		a.logger.Errorf("Error stopping MCP server: %v", err)
		return err
	}
	a.logger.Infof("MCP server stopped")
	return nil
}

// waitForShutdown waits for termination signals or server exit, performs
// cleanup and returns the process exit code
func waitForShutdown(cancel context.CancelFunc, app *Application) int {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-signalCh:
		app.logger.Infof("Received termination signal, shutting down...")
	case <-app.server.Done():
		if err := app.server.Err(); err != nil {
			app.logger.Errorf("Server transport failed: %v", err)
			exitCode = 1
		} else {
			app.logger.Infof("Server transport exited, shutting down...")
		}
	}

	// Cancel the context to initiate shutdown
	cancel()

	// Stop the application with a timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	shutdownDone := make(chan struct{})
	go func() {
		if err := app.Stop(); err != nil {
			app.logger.Errorf("Error during shutdown: %v", err)
		}
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		app.logger.Infof("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		app.logger.Warnf("Shutdown timed out")
	}

	return exitCode
}
