// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/livetransit/matransit/areas"
	"github.com/livetransit/matransit/transit"
	"github.com/livetransit/matransit/utils/httputils"
)

func (o *options) userAgent() string {
	return "matransit/" + Version
}

func (o *options) traceWriter() io.Writer {
	if o.EnableHTTPTrace {
		return os.Stderr
	}

	return nil
}

func (o *options) table() (*areas.Table, error) {
	if o.AreasPath == "" {
		return areas.Default()
	}

	return areas.LoadTable(o.AreasPath)
}

// keyLookup retrieves the API key through ADC.
type keyLookup func(ctx context.Context, project, displayName string) (string, error)

// mapsAPIKey returns the first credential available: the flag or the
// environment, then ADC when asked for. Failing to find one only disables
// geocoding.
func (o *options) mapsAPIKey(ctx context.Context, lookup keyLookup) string {
	if o.MapsAPIKey != "" {
		return o.MapsAPIKey
	}

	if !o.MapsKeyFromADC {
		log.Print("GOOGLE_MAPS_API_KEY is not set, geocoding disabled")

		return ""
	}

	log.Println("GOOGLE_MAPS_API_KEY is not set. Attempting to retrieve via ADC...")

	key, err := lookup(ctx, o.MapsProject, o.MapsKeyName)
	if err != nil {
		log.Printf("Failed to retrieve API key via ADC, geocoding disabled: %v", err)

		return ""
	}

	log.Println("Successfully retrieved Google Maps API Key via ADC")

	return key
}

// geocoder returns nil without a credential.
func (o *options) geocoder(ctx context.Context, lookup keyLookup) areas.Geocoder {
	key := o.mapsAPIKey(ctx, lookup)
	if key == "" {
		return nil
	}

	client := httputils.NewClient(httputils.Options{
		UserAgent: o.userAgent(),
		Timeout:   o.GeocodeTimeout,
		Trace:     o.traceWriter(),
		TraceBody: o.EnableHTTPBodyTrace,
	})

	return areas.NewGoogleMapsGeocoder(key, areas.WithHTTPClient(client))
}

// resolver builds the area resolver. The boolean reports whether geocoding
// is available.
func (o *options) resolver(ctx context.Context) (*areas.Resolver, bool, error) {
	t, err := o.table()
	if err != nil {
		return nil, false, err
	}

	mode, err := areas.ParseMatchMode(o.Match)
	if err != nil {
		return nil, false, err
	}

	g := o.geocoder(ctx, areas.APIKeyFromADC)

	r := areas.New(t, g, areas.Options{
		Match: mode,
		Geocode: areas.GeocodeOptions{
			Timeout:           o.GeocodeTimeout,
			RequestsPerSecond: o.GeocodeRPS,
		},
	})

	return r, g != nil, nil
}

func (o *options) middleware() (*transit.Client, error) {
	return transit.NewClient(&transit.ClientOptions{
		BaseURL:             o.MiddlewareURL,
		Timeout:             o.MiddlewareTimeout,
		UserAgent:           o.userAgent(),
		EnableHTTPTrace:     o.EnableHTTPTrace,
		EnableHTTPBodyTrace: o.EnableHTTPBodyTrace,
	})
}
