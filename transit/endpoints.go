// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package transit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// VehicleType filters realtime positions.
type VehicleType string

// Known vehicle types; the empty type asks for all of them.
const (
	VehicleAny  VehicleType = ""
	VehicleBus  VehicleType = "bus"
	VehicleRail VehicleType = "rail"
)

var errEmptySegment = errors.New("path segment is empty")

// ParseVehicleType accepts "", "bus" or "rail".
func ParseVehicleType(s string) (VehicleType, error) {
	switch t := VehicleType(strings.ToLower(strings.TrimSpace(s))); t {
	case VehicleAny, VehicleBus, VehicleRail:
		return t, nil
	default:
		return VehicleAny, fmt.Errorf("invalid vehicle type %q (want bus or rail)", s)
	}
}

func segment(name, v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%s: %w", name, errEmptySegment)
	}

	return url.PathEscape(v), nil
}

func areaQuery(area string) url.Values {
	return url.Values{"area": {area}}
}

// Areas lists the service areas known to the middleware.
func (c *Client) Areas(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/api/areas", nil)
}

// Area describes one service area.
func (c *Client) Area(ctx context.Context, areaID string) (json.RawMessage, error) {
	id, err := segment("area id", areaID)
	if err != nil {
		return nil, err
	}

	return c.Get(ctx, "/api/areas/"+id, nil)
}

// SearchStops searches stops of area by name.
func (c *Client) SearchStops(ctx context.Context, area, query string) (json.RawMessage, error) {
	q := areaQuery(area)
	q.Set("q", query)

	return c.Get(ctx, "/api/stops/search", q)
}

// Stop returns the details of a stop.
func (c *Client) Stop(ctx context.Context, area, stopID string) (json.RawMessage, error) {
	id, err := segment("stop id", stopID)
	if err != nil {
		return nil, err
	}

	return c.Get(ctx, "/api/stops/"+id, areaQuery(area))
}

// StopArrivals returns the predicted arrivals at a stop.
func (c *Client) StopArrivals(ctx context.Context, area, stopID string) (json.RawMessage, error) {
	id, err := segment("stop id", stopID)
	if err != nil {
		return nil, err
	}

	return c.Get(ctx, "/api/stops/"+id+"/arrivals", areaQuery(area))
}

// NearbyStops returns the stops within radius meters of lat, lon.
func (c *Client) NearbyStops(ctx context.Context, area string, lat, lon, radius float64) (json.RawMessage, error) {
	q := areaQuery(area)
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))

	return c.Get(ctx, "/api/stops/nearby", q)
}

// Routes lists the routes of area.
func (c *Client) Routes(ctx context.Context, area string) (json.RawMessage, error) {
	return c.Get(ctx, "/api/routes", areaQuery(area))
}

// Route returns a route with its stops.
func (c *Client) Route(ctx context.Context, area, routeID string) (json.RawMessage, error) {
	id, err := segment("route id", routeID)
	if err != nil {
		return nil, err
	}

	return c.Get(ctx, "/api/routes/"+id, areaQuery(area))
}

// RouteGeometry returns the shape of a route.
func (c *Client) RouteGeometry(ctx context.Context, area, routeID string) (json.RawMessage, error) {
	id, err := segment("route id", routeID)
	if err != nil {
		return nil, err
	}

	return c.Get(ctx, "/api/routes/"+id+"/geometry", areaQuery(area))
}

// LiveVehicles returns realtime vehicle positions, optionally for one type.
func (c *Client) LiveVehicles(ctx context.Context, area string, t VehicleType) (json.RawMessage, error) {
	q := areaQuery(area)
	if t != VehicleAny {
		q.Set("type", string(t))
	}

	return c.Get(ctx, "/api/realtime", q)
}

// ProviderStatus reports the health of the feed providers of area.
func (c *Client) ProviderStatus(ctx context.Context, area string) (json.RawMessage, error) {
	id, err := segment("area", area)
	if err != nil {
		return nil, err
	}

	return c.Get(ctx, "/api/areas/"+id+"/providers/status", nil)
}
