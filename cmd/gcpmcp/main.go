// gcpmcp is an MCP server exposing Google Cloud operations as tools:
// Secret Manager, Cloud Run and project discovery.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/effective-security/gcpmcp/config"
	"github.com/effective-security/gcpmcp/server"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
	mcphttp "github.com/metoro-io/mcp-golang/transport/http"
	"github.com/metoro-io/mcp-golang/transport/stdio"
	"github.com/spf13/cobra"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/gcpmcp", "cli")

type flags struct {
	cfgFile string
	addr    string
	debug   bool
}

func main() {
	f := new(flags)

	rootCmd := &cobra.Command{
		Use:          "gcpmcp",
		Short:        "MCP server for Google Cloud: Secret Manager and Cloud Run tools",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), f)
		},
	}
	rootCmd.Flags().StringVar(&f.cfgFile, "cfg", "", "configuration file")
	rootCmd.Flags().StringVar(&f.addr, "addr", "", "serve MCP over HTTP on this address instead of stdio")
	rootCmd.Flags().BoolVar(&f.debug, "debug", false, "enable debug logging")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context, f *flags) error {
	// Logs go to stderr: with the stdio transport, stdout carries
	// the MCP protocol stream.
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	xlog.SetGlobalLogLevel(xlog.INFO)
	if f.debug {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	}

	cfg, err := config.LoadConfig(f.cfgFile)
	if err != nil {
		return err
	}

	clients, err := server.NewClients(ctx, cfg)
	if err != nil {
		return err
	}
	srv, err := server.New(cfg, clients)
	if err != nil {
		return err
	}

	var mcpServer *mcp.Server
	if f.addr != "" {
		transport := mcphttp.NewHTTPTransport("/mcp").WithAddr(f.addr)
		mcpServer = mcp.NewServer(transport, mcp.WithName(cfg.Name()), mcp.WithVersion(cfg.Version()))
	} else {
		mcpServer = mcp.NewServer(stdio.NewStdioServerTransport(), mcp.WithName(cfg.Name()), mcp.WithVersion(cfg.Version()))
	}

	if err := srv.Register(mcpServer); err != nil {
		return err
	}

	logger.KV(xlog.INFO, "server", cfg.Name(), "version", cfg.Version(), "addr", f.addr)
	if err := mcpServer.Serve(); err != nil {
		return err
	}

	// The stdio transport serves in the background; wait for shutdown.
	<-ctx.Done()
	return nil
}
