// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

// Package httpapi serves area detection over plain HTTP for clients that do
// not speak MCP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/livetransit/matransit/tools"
)

const shutdownTimeout = 5 * time.Second

// Options configures NewServer.
type Options struct {
	// Geocoding is only reported by /healthz
	Geocoding bool

	// LogWriter receives gin's debug output and access log, defaults to the
	// standard logger's writer. It must not be stdout when MCP runs on stdio.
	LogWriter io.Writer
}

type Server struct {
	detector  tools.Detector
	geocoding bool
	logWriter io.Writer
}

// NewServer returns a server answering with d.
func NewServer(d tools.Detector, opts Options) *Server {
	if opts.LogWriter == nil {
		opts.LogWriter = log.Writer()
	}

	return &Server{
		detector:  d,
		geocoding: opts.Geocoding,
		logWriter: opts.LogWriter,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	// gin prints its debug banner and route table to these
	gin.DefaultWriter = s.logWriter
	gin.DefaultErrorWriter = s.logWriter

	r := gin.New()
	r.Use(gin.LoggerWithWriter(s.logWriter), gin.RecoveryWithWriter(s.logWriter))

	r.GET("/healthz", s.healthz)
	r.GET("/api/detect", s.detect)
	r.GET("/api/areas/mapping", s.mapping)

	return r
}

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Printf("HTTP API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serving http on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	return nil
}

func (s *Server) healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "geocoder": s.geocoding})
}

func (s *Server) detect(ctx *gin.Context) {
	location := ctx.Query("location")
	if location == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "location query parameter is required"})

		return
	}

	ctx.JSON(http.StatusOK, tools.Detect(ctx.Request.Context(), s.detector, location))
}

func (s *Server) mapping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.detector.Mapping())
}
