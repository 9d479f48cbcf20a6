// Command onsec-mcp starts the OnSecurity MCP server.
//
// Supports two transport modes:
//   - stdio (default): for IDE integrations (Claude Desktop, Cursor, VS Code)
//   - http:            for remote/Docker deployments with session management
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/onsecurity/onsec-mcp/pkg/apimetrics"
	"github.com/onsecurity/onsec-mcp/pkg/config"
	"github.com/onsecurity/onsec-mcp/pkg/defaults"
	"github.com/onsecurity/onsec-mcp/pkg/duration"
	"github.com/onsecurity/onsec-mcp/pkg/mcpserver"
	"github.com/onsecurity/onsec-mcp/pkg/observability"
	"github.com/onsecurity/onsec-mcp/pkg/onsecurity"
	"github.com/onsecurity/onsec-mcp/pkg/retry"
	"github.com/onsecurity/onsec-mcp/pkg/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	fs := flag.NewFlagSet(defaults.ToolName, flag.ExitOnError)

	stdio := fs.Bool("stdio", false, "Force stdio transport (default when --http is not set)")
	httpMode := fs.Bool("http", false, "Serve the streamable HTTP transport instead of stdio")
	configFile := fs.String("config", "", "Optional YAML config file")
	version := fs.Bool("version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", defaults.ToolName)
		fmt.Fprintf(os.Stderr, "Start the OnSecurity MCP server.\n\n")
		fmt.Fprintf(os.Stderr, "Transports:\n")
		fmt.Fprintf(os.Stderr, "  --stdio   Stdio transport for IDE integration (default)\n")
		fmt.Fprintf(os.Stderr, "  --http    Streamable HTTP transport for remote/Docker\n\n")
		fmt.Fprintf(os.Stderr, "Environment variables:\n")
		fmt.Fprintf(os.Stderr, "  ONSECURITY_API_TOKEN   API token (required)\n")
		fmt.Fprintf(os.Stderr, "  ONSECURITY_API_BASE    API base URL (default: %s)\n", defaults.APIBase)
		fmt.Fprintf(os.Stderr, "  ONSECURITY_CLIENT_ID   Pin every query to one client id\n")
		fmt.Fprintf(os.Stderr, "  MCP_TRANSPORT          \"stdio\" or \"http\"\n")
		fmt.Fprintf(os.Stderr, "  HOST, PORT             HTTP bind address (default 0.0.0.0:3000)\n")
		fmt.Fprintf(os.Stderr, "  ALLOWED_ORIGINS        Comma-separated CORS origin allow-list\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  ONSECURITY_API_TOKEN=... %s\n", defaults.ToolName)
		fmt.Fprintf(os.Stderr, "  ONSECURITY_API_TOKEN=... %s --http\n\n", defaults.ToolName)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return defaults.ExitConfig
	}

	if *version {
		fmt.Printf("%s v%s\n", defaults.ToolName, defaults.Version)
		return defaults.ExitOK
	}

	cfg, err := config.FromEnv(*configFile)
	if err != nil {
		ui.Warnf("%v", err)
		return defaults.ExitConfig
	}
	if *httpMode {
		cfg.Transport = config.TransportHTTP
	}
	if *stdio {
		cfg.Transport = config.TransportStdio
	}
	if err := cfg.Validate(); err != nil {
		ui.Warnf("%v", err)
		return defaults.ExitConfig
	}

	ui.Banner()

	// Stdio shares the terminal with the MCP client; keep the standard
	// logger on stderr so protocol frames stay clean.
	logger := log.New(os.Stderr, "", log.LstdFlags)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.OTLPEndpoint != "" {
		shutdown, traceErr := observability.SetupTracing(ctx, cfg.OTLPEndpoint)
		if traceErr != nil {
			ui.Warnf("tracing disabled: %v", traceErr)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Printf("trace shutdown: %v", err)
				}
			}()
			ui.Statusf("tracing to %s", cfg.OTLPEndpoint)
		}
	}

	metrics := apimetrics.New()
	retryCfg := retry.Single()
	if cfg.Retries > 1 {
		retryCfg = retry.Backoff(cfg.Retries)
	}
	client := onsecurity.NewClient(onsecurity.Options{
		BaseURL:   cfg.APIBase,
		Token:     cfg.APIToken,
		Timeout:   cfg.HTTPTimeout,
		RateLimit: cfg.RateLimit,
		Retry:     retryCfg,
		Logger:    logger,
		Metrics:   metrics,
	})

	srv := mcpserver.New(mcpserver.Deps{
		Config:  cfg,
		Client:  client,
		Metrics: metrics,
		Logger:  logger,
	})
	srv.MarkReady()

	if cfg.Transport == config.TransportHTTP {
		return runHTTP(ctx, cfg, srv, logger)
	}

	ui.Statusf("stdio transport ready")
	if err := srv.RunStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
		ui.Warnf("%v", err)
		return defaults.ExitTransport
	}
	return defaults.ExitOK
}

func runHTTP(ctx context.Context, cfg *config.Config, srv *mcpserver.Server, logger *log.Logger) int {
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.HTTPHandler(),
		ReadHeaderTimeout: duration.HTTPReadHeader,
		ReadTimeout:       duration.HTTPRead,
		// WriteTimeout intentionally 0: SSE streams are long-lived and
		// any non-zero value sets an absolute deadline that kills them.
		// ReadHeaderTimeout + ReadTimeout protect against slowloris.
		IdleTimeout:    duration.HTTPIdle,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), duration.ShutdownGrace)
		defer shutdownCancel()
		ui.Statusf("shutting down gracefully")
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()

	ui.Statusf("MCP server listening on %s (HTTP transport)", cfg.ListenAddr())
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		ui.Warnf("%v", err)
		return defaults.ExitTransport
	}
	return defaults.ExitOK
}
