// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

// Package tools exposes the transit middleware and area detection as MCP
// tools.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/livetransit/matransit/spatial"
	"github.com/livetransit/matransit/transit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName is announced to MCP clients.
const ServerName = "malaysia-transit"

// DefaultRadius is the find_nearby_stops search radius in meters.
const DefaultRadius = 500

const (
	areaHint  = `Service area ID (e.g., "penang", "klang-valley")`
	stopHint  = "Stop ID from search results"
	routeHint = "Route ID from list_routes"
)

// Middleware is the subset of the transit client used by the tools.
type Middleware interface {
	Areas(ctx context.Context) (json.RawMessage, error)
	Area(ctx context.Context, areaID string) (json.RawMessage, error)
	SearchStops(ctx context.Context, area, query string) (json.RawMessage, error)
	Stop(ctx context.Context, area, stopID string) (json.RawMessage, error)
	StopArrivals(ctx context.Context, area, stopID string) (json.RawMessage, error)
	NearbyStops(ctx context.Context, area string, lat, lon, radius float64) (json.RawMessage, error)
	Routes(ctx context.Context, area string) (json.RawMessage, error)
	Route(ctx context.Context, area, routeID string) (json.RawMessage, error)
	RouteGeometry(ctx context.Context, area, routeID string) (json.RawMessage, error)
	LiveVehicles(ctx context.Context, area string, t transit.VehicleType) (json.RawMessage, error)
	ProviderStatus(ctx context.Context, area string) (json.RawMessage, error)
}

// Dependencies are the services the tool handlers call.
type Dependencies struct {
	Detector   Detector
	Middleware Middleware
}

// NewServer creates an MCP server with every tool registered.
func NewServer(version string, deps Dependencies) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	s.AddTools(Tools(deps)...)

	return s
}

// Tools returns the tool definitions bound to deps, in listing order.
func Tools(deps Dependencies) []server.ServerTool {
	h := handlers{deps}

	return []server.ServerTool{
		{
			Tool: mcp.NewTool("list_service_areas",
				mcp.WithDescription("List all available transit service areas in Malaysia (e.g., Klang Valley, Penang, Kuantan)"),
			),
			Handler: h.listServiceAreas,
		},
		{
			Tool: mcp.NewTool("detect_location_area",
				mcp.WithDescription("Automatically detect which transit service area a location belongs to using geocoding. "+
					"Use this when the user mentions a place name without specifying the area "+
					`(e.g., "KTM Alor Setar", "Komtar", "KLCC")`),
				mcp.WithString("location", mcp.Required(),
					mcp.Description(`Location name or place (e.g., "KTM Alor Setar", "Komtar", "Pavilion KL")`)),
			),
			Handler: h.detectLocationArea,
		},
		{
			Tool: mcp.NewTool("get_area_info",
				mcp.WithDescription("Get detailed information about a specific transit service area"),
				mcp.WithString("areaId", mcp.Required(),
					mcp.Description(`Service area ID (e.g., "penang", "klang-valley", "kuantan")`)),
			),
			Handler: h.getAreaInfo,
		},
		{
			Tool: mcp.NewTool("search_stops",
				mcp.WithDescription("Search for bus or train stops by name in a specific area. "+
					"IMPORTANT: If you are unsure which area a location belongs to, "+
					"use detect_location_area first to automatically determine the correct area."),
				mcp.WithString("area", mcp.Required(), mcp.Description(areaHint+". Use detect_location_area if unsure.")),
				mcp.WithString("query", mcp.Required(), mcp.Description(`Search query (e.g., "Komtar", "KLCC")`)),
			),
			Handler: h.searchStops,
		},
		{
			Tool: mcp.NewTool("get_stop_details",
				mcp.WithDescription("Get detailed information about a specific bus or train stop"),
				mcp.WithString("area", mcp.Required(), mcp.Description(areaHint)),
				mcp.WithString("stopId", mcp.Required(), mcp.Description(stopHint)),
			),
			Handler: h.getStopDetails,
		},
		{
			Tool: mcp.NewTool("get_stop_arrivals",
				mcp.WithDescription("Get real-time arrival predictions for buses/trains at a specific stop"),
				mcp.WithString("area", mcp.Required(), mcp.Description(areaHint)),
				mcp.WithString("stopId", mcp.Required(), mcp.Description(stopHint)),
			),
			Handler: h.getStopArrivals,
		},
		{
			Tool: mcp.NewTool("find_nearby_stops",
				mcp.WithDescription("Find bus or train stops near a specific location"),
				mcp.WithString("area", mcp.Required(), mcp.Description(areaHint)),
				mcp.WithNumber("lat", mcp.Required(), mcp.Description("Latitude coordinate")),
				mcp.WithNumber("lon", mcp.Required(), mcp.Description("Longitude coordinate")),
				mcp.WithNumber("radius", mcp.DefaultNumber(DefaultRadius),
					mcp.Description("Search radius in meters (default: 500)")),
			),
			Handler: h.findNearbyStops,
		},
		{
			Tool: mcp.NewTool("list_routes",
				mcp.WithDescription("List all available bus or train routes in a specific area"),
				mcp.WithString("area", mcp.Required(), mcp.Description(areaHint)),
			),
			Handler: h.listRoutes,
		},
		{
			Tool: mcp.NewTool("get_route_details",
				mcp.WithDescription("Get detailed information about a specific route including stops and geometry"),
				mcp.WithString("area", mcp.Required(), mcp.Description(areaHint)),
				mcp.WithString("routeId", mcp.Required(), mcp.Description(routeHint)),
			),
			Handler: h.getRouteDetails,
		},
		{
			Tool: mcp.NewTool("get_route_geometry",
				mcp.WithDescription("Get the geographic path and stops for a specific route (for map visualization)"),
				mcp.WithString("area", mcp.Required(), mcp.Description(areaHint)),
				mcp.WithString("routeId", mcp.Required(), mcp.Description(routeHint)),
			),
			Handler: h.getRouteGeometry,
		},
		{
			Tool: mcp.NewTool("get_live_vehicles",
				mcp.WithDescription("Get real-time positions of all buses and trains in a specific area"),
				mcp.WithString("area", mcp.Required(), mcp.Description(areaHint)),
				mcp.WithString("type", mcp.Enum(string(transit.VehicleBus), string(transit.VehicleRail)),
					mcp.Description("Filter by transit type (optional)")),
			),
			Handler: h.getLiveVehicles,
		},
		{
			Tool: mcp.NewTool("get_provider_status",
				mcp.WithDescription("Check the operational status of transit providers in a specific area"),
				mcp.WithString("area", mcp.Required(), mcp.Description(areaHint)),
			),
			Handler: h.getProviderStatus,
		},
	}
}

type handlers struct {
	Dependencies
}

func (h handlers) listServiceAreas(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.Middleware.Areas(ctx)
	if err != nil {
		return errorResult("Failed to fetch service areas", err), nil
	}

	return rawResult("", raw), nil
}

func (h handlers) detectLocationArea(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	location, err := stringArg(req.GetArguments(), "location")
	if err != nil {
		return errorResult("Failed to detect location area", err), nil
	}

	return jsonResult(Detect(ctx, h.Detector, location)), nil
}

func (h handlers) getAreaInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	areaID, err := stringArg(req.GetArguments(), "areaId")
	if err != nil {
		return errorResult("Failed to fetch area info", err), nil
	}

	raw, err := h.Middleware.Area(ctx, areaID)
	if err != nil {
		return errorResult("Failed to fetch area info for "+areaID, err), nil
	}

	return rawResult("", raw), nil
}

// areaAnd reads the area argument plus one more string argument.
func areaAnd(req mcp.CallToolRequest, name string) (string, string, error) {
	args := req.GetArguments()

	area, err := stringArg(args, "area")
	if err != nil {
		return "", "", err
	}

	v, err := stringArg(args, name)
	if err != nil {
		return "", "", err
	}

	return area, v, nil
}

func (h handlers) searchStops(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	area, query, err := areaAnd(req, "query")
	if err != nil {
		return errorResult("Failed to search stops", err), nil
	}

	raw, err := h.Middleware.SearchStops(ctx, area, query)
	if err != nil {
		return errorResult("Failed to search stops in "+area, err), nil
	}

	return rawResult("", raw), nil
}

func (h handlers) getStopDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	area, stopID, err := areaAnd(req, "stopId")
	if err != nil {
		return errorResult("Failed to fetch stop details", err), nil
	}

	raw, err := h.Middleware.Stop(ctx, area, stopID)
	if err != nil {
		return errorResult("Failed to fetch stop details for "+stopID, err), nil
	}

	return rawResult("", raw), nil
}

func (h handlers) getStopArrivals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	area, stopID, err := areaAnd(req, "stopId")
	if err != nil {
		return errorResult("Failed to fetch arrivals", err), nil
	}

	raw, err := h.Middleware.StopArrivals(ctx, area, stopID)
	if err != nil {
		return errorResult("Failed to fetch arrivals for stop "+stopID, err), nil
	}

	return rawResult(ArrivalDisclaimer, raw), nil
}

func (h handlers) findNearbyStops(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const summary = "Failed to find nearby stops"

	args := req.GetArguments()

	area, err := stringArg(args, "area")
	if err != nil {
		return errorResult(summary, err), nil
	}

	lat, err := numberArg(args, "lat")
	if err != nil {
		return errorResult(summary, err), nil
	}

	lon, err := numberArg(args, "lon")
	if err != nil {
		return errorResult(summary, err), nil
	}

	radius, err := numberArgOr(args, "radius", DefaultRadius)
	if err != nil {
		return errorResult(summary, err), nil
	}

	if err := (spatial.Point{Lat: lat, Lng: lon}).Validate(); err != nil {
		return errorResult(summary, err), nil
	}

	if radius <= 0 {
		return errorResult(summary, fmt.Errorf("radius must be positive, got %v", radius)), nil
	}

	raw, err := h.Middleware.NearbyStops(ctx, area, lat, lon, radius)
	if err != nil {
		return errorResult(summary, err), nil
	}

	return rawResult("", raw), nil
}

func (h handlers) listRoutes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	area, err := stringArg(req.GetArguments(), "area")
	if err != nil {
		return errorResult("Failed to fetch routes", err), nil
	}

	raw, err := h.Middleware.Routes(ctx, area)
	if err != nil {
		return errorResult("Failed to fetch routes for "+area, err), nil
	}

	return rawResult("", raw), nil
}

func (h handlers) getRouteDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	area, routeID, err := areaAnd(req, "routeId")
	if err != nil {
		return errorResult("Failed to fetch route details", err), nil
	}

	raw, err := h.Middleware.Route(ctx, area, routeID)
	if err != nil {
		return errorResult("Failed to fetch route details for "+routeID, err), nil
	}

	return rawResult("", raw), nil
}

func (h handlers) getRouteGeometry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	area, routeID, err := areaAnd(req, "routeId")
	if err != nil {
		return errorResult("Failed to fetch route geometry", err), nil
	}

	raw, err := h.Middleware.RouteGeometry(ctx, area, routeID)
	if err != nil {
		return errorResult("Failed to fetch route geometry for "+routeID, err), nil
	}

	return rawResult("", raw), nil
}

func (h handlers) getLiveVehicles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	area, err := stringArg(args, "area")
	if err != nil {
		return errorResult("Failed to fetch live vehicles", err), nil
	}

	typ, err := optionalStringArg(args, "type")
	if err != nil {
		return errorResult("Failed to fetch live vehicles for "+area, err), nil
	}

	vt, err := transit.ParseVehicleType(typ)
	if err != nil {
		return errorResult("Failed to fetch live vehicles for "+area, err), nil
	}

	raw, err := h.Middleware.LiveVehicles(ctx, area, vt)
	if err != nil {
		return errorResult("Failed to fetch live vehicles for "+area, err), nil
	}

	return rawResult("", raw), nil
}

func (h handlers) getProviderStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	area, err := stringArg(req.GetArguments(), "area")
	if err != nil {
		return errorResult("Failed to fetch provider status", err), nil
	}

	raw, err := h.Middleware.ProviderStatus(ctx, area)
	if err != nil {
		return errorResult("Failed to fetch provider status for "+area, err), nil
	}

	return rawResult("", raw), nil
}
