// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/livetransit/matransit/areas"
	"github.com/livetransit/matransit/transit"
	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	// stdout belongs to the MCP transport
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "matransit",
	Short: "Malaysian public transit tools for LLM clients",
	Long: `
matransit exposes the bus and rail information of the Malaysian transit
middleware (stops, routes, arrivals and live vehicles) as MCP tools, and
works out which service area a free-form place name such as "Komtar" or
"KTM Alor Setar" belongs to.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return rootOptions.applyEnv(cmd.Flags().Changed, os.Getenv)
	},
}

// options are the flags shared by every command.
type options struct {
	MiddlewareURL     string
	MiddlewareTimeout time.Duration

	MapsAPIKey     string
	MapsKeyFromADC bool
	MapsProject    string
	MapsKeyName    string

	AreasPath      string
	Match          string
	GeocodeTimeout time.Duration
	GeocodeRPS     float64

	EnableHTTPTrace     bool
	EnableHTTPBodyTrace bool
}

var rootOptions = &options{}

// applyEnv fills the settings whose flag was not given from the environment.
func (o *options) applyEnv(changed func(string) bool, getenv func(string) string) error {
	if !changed("middleware-url") {
		if v := getenv("MIDDLEWARE_URL"); v != "" {
			o.MiddlewareURL = v
		}
	}

	if !changed("maps-api-key") {
		o.MapsAPIKey = getenv("GOOGLE_MAPS_API_KEY")
	}

	if _, err := areas.ParseMatchMode(o.Match); err != nil {
		return err
	}

	return nil
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(
		&rootOptions.MiddlewareURL,
		"middleware-url",
		transit.DefaultBaseURL,
		"Base URL of the transit middleware (env MIDDLEWARE_URL)",
	)
	flags.DurationVar(
		&rootOptions.MiddlewareTimeout,
		"middleware-timeout",
		transit.DefaultTimeout,
		"Upper bound for one middleware request",
	)
	flags.StringVar(
		&rootOptions.MapsAPIKey,
		"maps-api-key",
		"",
		"Google Maps Geocoding API key (env GOOGLE_MAPS_API_KEY)",
	)
	flags.BoolVar(
		&rootOptions.MapsKeyFromADC,
		"maps-key-from-adc",
		false,
		"Without an API key, look it up with Application Default Credentials",
	)
	flags.StringVar(
		&rootOptions.MapsProject,
		"maps-project",
		"",
		"Google Cloud project holding the API key, defaults to the ADC project",
	)
	flags.StringVar(
		&rootOptions.MapsKeyName,
		"maps-key-name",
		areas.DefaultMapsKeyName,
		"Display name of the API key looked up with ADC",
	)
	flags.StringVar(
		&rootOptions.AreasPath,
		"areas",
		"",
		"JSON file replacing the built-in service areas and gazetteer",
	)
	flags.StringVar(
		&rootOptions.Match,
		"match",
		areas.MatchWords.String(),
		"Gazetteer matching: words or substring",
	)
	flags.DurationVar(
		&rootOptions.GeocodeTimeout,
		"geocode-timeout",
		areas.DefaultGeocodeTimeout,
		"Upper bound for one geocoding lookup",
	)
	flags.Float64Var(
		&rootOptions.GeocodeRPS,
		"geocode-rps",
		areas.DefaultGeocodeRPS,
		"Geocoding requests per second, negative for no limit",
	)
	flags.BoolVar(
		&rootOptions.EnableHTTPTrace,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	flags.BoolVar(
		&rootOptions.EnableHTTPBodyTrace,
		"trace-http-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}
