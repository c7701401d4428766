// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/livetransit/matransit/httpapi"
	"github.com/livetransit/matransit/tools"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveOptions struct {
	HTTPAddr  string
	HTTPDebug bool
	Stdio     bool
}

var errNothingToServe = errors.New("nothing to serve: use --stdio or --http")

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the transit tools over MCP stdio",
	Long: `Runs the MCP server on stdin/stdout. With --http the area detection
endpoints are also served over HTTP.

Logs go to stderr, stdout carries the MCP protocol.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !serveOptions.Stdio && serveOptions.HTTPAddr == "" {
			return errNothingToServe
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		resolver, geocoding, err := rootOptions.resolver(ctx)
		if err != nil {
			return fmt.Errorf("building area resolver: %w", err)
		}

		middleware, err := rootOptions.middleware()
		if err != nil {
			return err
		}

		log.Printf("matransit %s, middleware at %s, geocoding enabled: %v",
			Version, middleware.BaseURL(), geocoding)

		g, ctx := errgroup.WithContext(ctx)

		if serveOptions.Stdio {
			mcpServer := tools.NewServer(Version, tools.Dependencies{
				Detector:   resolver,
				Middleware: middleware,
			})

			g.Go(func() error {
				defer stop()

				stdio := server.NewStdioServer(mcpServer)
				stdio.SetErrorLogger(log.Default())

				if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
					return fmt.Errorf("serving mcp: %w", err)
				}

				return nil
			})
		}

		if serveOptions.HTTPAddr != "" {
			if !serveOptions.HTTPDebug {
				gin.SetMode(gin.ReleaseMode)
			}

			api := httpapi.NewServer(resolver, httpapi.Options{
				Geocoding: geocoding,
				LogWriter: log.Writer(),
			})

			g.Go(func() error {
				return api.Run(ctx, serveOptions.HTTPAddr)
			})
		}

		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(
		&serveOptions.HTTPAddr,
		"http",
		"",
		"Also serve the HTTP API on this address, e.g. :8080",
	)
	serveCmd.Flags().BoolVar(
		&serveOptions.HTTPDebug,
		"http-debug",
		false,
		"Run the HTTP API in gin debug mode, output goes to stderr",
	)
	serveCmd.Flags().BoolVar(
		&serveOptions.Stdio,
		"stdio",
		true,
		"Serve MCP on stdin/stdout",
	)
}
