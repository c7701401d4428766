// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/livetransit/matransit/areas"
	"github.com/livetransit/matransit/transit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	result *areas.GeocodingResult
	err    error
}

func (s *stubGeocoder) Geocode(_ context.Context, _ string) (*areas.GeocodingResult, error) {
	return s.result, s.err
}

// middleware records requests and answers every one with body.
type middleware struct {
	mu     sync.Mutex
	status int
	body   string
	paths  []string
}

func (m *middleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.paths = append(m.paths, r.URL.RequestURI())
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(m.status)
	_, _ = io.WriteString(w, m.body)
}

func (m *middleware) requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.paths...)
}

func defaultTable(t *testing.T) *areas.Table {
	t.Helper()

	table, err := areas.Default()
	require.NoError(t, err)

	return table
}

func newDeps(t *testing.T, g areas.Geocoder, status int, body string) (Dependencies, *middleware) {
	t.Helper()

	mw := &middleware{status: status, body: body}
	ts := httptest.NewServer(mw)
	t.Cleanup(ts.Close)

	client, err := transit.NewClient(&transit.ClientOptions{BaseURL: ts.URL})
	require.NoError(t, err)

	return Dependencies{
		Detector:   areas.New(defaultTable(t), g, areas.Options{}),
		Middleware: client,
	}, mw
}

func call(t *testing.T, deps Dependencies, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	for _, st := range Tools(deps) {
		if st.Tool.Name != name {
			continue
		}

		req := mcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args

		res, err := st.Handler(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, res)

		return res
	}

	t.Fatalf("tool %q not registered", name)

	return nil
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])

	return text.Text
}

func decode(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &m))

	return m
}

func TestToolCatalog(t *testing.T) {
	deps, _ := newDeps(t, nil, http.StatusOK, `{}`)

	var names []string
	for _, st := range Tools(deps) {
		names = append(names, st.Tool.Name)
		assert.NotEmpty(t, st.Tool.Description, st.Tool.Name)
	}

	assert.Equal(t, []string{
		"list_service_areas",
		"detect_location_area",
		"get_area_info",
		"search_stops",
		"get_stop_details",
		"get_stop_arrivals",
		"find_nearby_stops",
		"list_routes",
		"get_route_details",
		"get_route_geometry",
		"get_live_vehicles",
		"get_provider_status",
	}, names)

	assert.NotNil(t, NewServer("test", deps))
}

func TestDetectLocationAreaGazetteerHit(t *testing.T) {
	deps, mw := newDeps(t, nil, http.StatusOK, `{}`)

	res := call(t, deps, "detect_location_area", map[string]any{"location": "Komtar"})
	assert.False(t, res.IsError)

	got := decode(t, res)
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "penang", got["area"])
	assert.Equal(t, "high", got["confidence"])
	assert.Equal(t, "gazetteer", got["source"])
	assert.Equal(t, "Komtar", got["location"])
	assert.Equal(t, `Location "Komtar" detected in service area: penang`, got["message"])
	assert.NotContains(t, got, "availableAreas")
	assert.Empty(t, mw.requests(), "detection must not touch the middleware")
}

func TestDetectLocationAreaGeocodeHit(t *testing.T) {
	g := &stubGeocoder{result: &areas.GeocodingResult{
		State:       "Kedah",
		Country:     "MY",
		DisplayName: "Alor Setar, Kedah, Malaysia",
	}}
	deps, _ := newDeps(t, g, http.StatusOK, `{}`)

	got := decode(t, call(t, deps, "detect_location_area", map[string]any{"location": "KTM Alor Setar"}))
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "kedah", got["area"])
	assert.Equal(t, "medium", got["confidence"])
	assert.Equal(t, "geocode", got["source"])
	assert.Equal(t, "Alor Setar, Kedah, Malaysia", got["location"])
}

func TestDetectLocationAreaMiss(t *testing.T) {
	deps, _ := newDeps(t, nil, http.StatusOK, `{}`)

	res := call(t, deps, "detect_location_area", map[string]any{"location": "qqzxnonsense"})
	assert.False(t, res.IsError, "a miss is not a tool error")

	text := resultText(t, res)

	var got struct {
		Success        bool                `json:"success"`
		Message        string              `json:"message"`
		AvailableAreas map[string][]string `json:"availableAreas"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &got))

	assert.False(t, got.Success)
	assert.Contains(t, got.Message, `"qqzxnonsense"`)
	assert.Len(t, got.AvailableAreas, defaultTable(t).Mapping().Len())
	assert.Equal(t, []string{"Pulau Pinang", "Penang"}, got.AvailableAreas["penang"])

	// the mapping keeps the table order
	assert.Less(t, strings.Index(text, `"penang"`), strings.Index(text, `"kuching"`))
	assert.NotContains(t, text, `"area"`)
}

func TestDetectLocationAreaCoercesArguments(t *testing.T) {
	deps, _ := newDeps(t, nil, http.StatusOK, `{}`)

	got := decode(t, call(t, deps, "detect_location_area", map[string]any{"location": 42}))
	assert.Equal(t, false, got["success"])
	assert.Contains(t, got["message"], `"42"`)
}

func TestDetectLocationAreaMissingArgument(t *testing.T) {
	deps, _ := newDeps(t, nil, http.StatusOK, `{}`)

	res := call(t, deps, "detect_location_area", map[string]any{})
	assert.True(t, res.IsError)

	got := decode(t, res)
	assert.Equal(t, "Failed to detect location area", got["error"])
	assert.Contains(t, got["message"], "location")
}

func TestMiddlewareTools(t *testing.T) {
	tests := []struct {
		tool string
		args map[string]any
		want string
	}{
		{"list_service_areas", nil, "/api/areas"},
		{"get_area_info", map[string]any{"areaId": "penang"}, "/api/areas/penang"},
		{"search_stops", map[string]any{"area": "penang", "query": "Komtar"}, "/api/stops/search?area=penang&q=Komtar"},
		{"get_stop_details", map[string]any{"area": "penang", "stopId": 1001}, "/api/stops/1001?area=penang"},
		{"get_stop_arrivals", map[string]any{"area": "penang", "stopId": "P1"}, "/api/stops/P1/arrivals?area=penang"},
		{
			"find_nearby_stops",
			map[string]any{"area": "penang", "lat": "5.4141", "lon": 100.3288},
			"/api/stops/nearby?area=penang&lat=5.4141&lon=100.3288&radius=500",
		},
		{
			"find_nearby_stops",
			map[string]any{"area": "penang", "lat": 5.4141, "lon": 100.3288, "radius": "250"},
			"/api/stops/nearby?area=penang&lat=5.4141&lon=100.3288&radius=250",
		},
		{"list_routes", map[string]any{"area": "kuantan"}, "/api/routes?area=kuantan"},
		{"get_route_details", map[string]any{"area": "kuantan", "routeId": "K01"}, "/api/routes/K01?area=kuantan"},
		{"get_route_geometry", map[string]any{"area": "kuantan", "routeId": "K01"}, "/api/routes/K01/geometry?area=kuantan"},
		{"get_live_vehicles", map[string]any{"area": "klang-valley"}, "/api/realtime?area=klang-valley"},
		{"get_live_vehicles", map[string]any{"area": "klang-valley", "type": "rail"}, "/api/realtime?area=klang-valley&type=rail"},
		{"get_provider_status", map[string]any{"area": "penang"}, "/api/areas/penang/providers/status"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			deps, mw := newDeps(t, nil, http.StatusOK, `{"data":[1,2]}`)

			res := call(t, deps, tt.tool, tt.args)
			require.False(t, res.IsError, resultText(t, res))
			assert.Equal(t, []string{tt.want}, mw.requests())

			text := resultText(t, res)
			assert.True(t, strings.HasSuffix(text, "{\n  \"data\": [\n    1,\n    2\n  ]\n}"), text)
		})
	}
}

func TestStopArrivalsDisclaimer(t *testing.T) {
	deps, _ := newDeps(t, nil, http.StatusOK, `{"arrivals":[]}`)

	text := resultText(t, call(t, deps, "get_stop_arrivals", map[string]any{"area": "penang", "stopId": "P1"}))
	assert.True(t, strings.HasPrefix(text, ArrivalDisclaimer))
	assert.JSONEq(t, `{"arrivals":[]}`, strings.TrimPrefix(text, ArrivalDisclaimer))
}

func TestMiddlewareFailure(t *testing.T) {
	deps, _ := newDeps(t, nil, http.StatusNotFound, `{"error":"Area not found"}`)

	res := call(t, deps, "get_area_info", map[string]any{"areaId": "atlantis"})
	require.True(t, res.IsError)

	got := decode(t, res)
	assert.Equal(t, "Failed to fetch area info for atlantis", got["error"])
	assert.Contains(t, got["message"], "404")
}

func TestArgumentValidation(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"latitude out of range", "find_nearby_stops", map[string]any{"area": "penang", "lat": 91, "lon": 100}},
		{"longitude out of range", "find_nearby_stops", map[string]any{"area": "penang", "lat": 5, "lon": -181}},
		{"latitude not a number", "find_nearby_stops", map[string]any{"area": "penang", "lat": "north", "lon": 100}},
		{"zero radius", "find_nearby_stops", map[string]any{"area": "penang", "lat": 5, "lon": 100, "radius": 0}},
		{"negative radius", "find_nearby_stops", map[string]any{"area": "penang", "lat": 5, "lon": 100, "radius": -5}},
		{"unknown vehicle type", "get_live_vehicles", map[string]any{"area": "penang", "type": "ferry"}},
		{"missing area", "list_routes", map[string]any{}},
		{"missing stop", "get_stop_details", map[string]any{"area": "penang"}},
		{"blank stop", "get_stop_arrivals", map[string]any{"area": "penang", "stopId": " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, mw := newDeps(t, nil, http.StatusOK, `{}`)

			res := call(t, deps, tt.tool, tt.args)
			require.True(t, res.IsError)

			got := decode(t, res)
			assert.NotEmpty(t, got["error"])
			assert.NotEmpty(t, got["message"])
			assert.Empty(t, mw.requests())
		})
	}
}
