// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/livetransit/matransit/areas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTable(t *testing.T) *areas.Table {
	t.Helper()

	table, err := areas.Default()
	require.NoError(t, err)

	return table
}

func setupServerTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resolver := areas.New(defaultTable(t), nil, areas.Options{})

	return NewServer(resolver, Options{LogWriter: io.Discard}).Router()
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)

	return w
}

func TestHealthz(t *testing.T) {
	w := get(t, setupServerTest(t), "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","geocoder":false}`, w.Body.String())
}

func TestDetectHit(t *testing.T) {
	w := get(t, setupServerTest(t), "/api/detect?location=Pavilion%20KL")
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	want := map[string]any{
		"success":    true,
		"area":       "klang-valley",
		"confidence": "high",
		"location":   "Pavilion KL",
		"source":     "gazetteer",
		"message":    `Location "Pavilion KL" detected in service area: klang-valley`,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("detect mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectMiss(t *testing.T) {
	w := get(t, setupServerTest(t), "/api/detect?location=qqzxnonsense")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Success        bool                `json:"success"`
		AvailableAreas map[string][]string `json:"availableAreas"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	assert.False(t, got.Success)
	assert.Equal(t, []string{"Sarawak"}, got.AvailableAreas["kuching"])
}

func TestDetectRequiresLocation(t *testing.T) {
	w := get(t, setupServerTest(t), "/api/detect")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "location query parameter is required")
}

func TestMapping(t *testing.T) {
	w := get(t, setupServerTest(t), "/api/areas/mapping")
	require.Equal(t, http.StatusOK, w.Code)

	want, err := json.Marshal(defaultTable(t).Mapping())
	require.NoError(t, err)
	assert.JSONEq(t, string(want), w.Body.String())
}

func TestRunStopsWithContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	srv := NewServer(areas.New(defaultTable(t), nil, areas.Options{}), Options{LogWriter: io.Discard})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- srv.Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestGinOutputStaysOffStdout(t *testing.T) {
	prevMode, prevOut, prevErr := gin.Mode(), gin.DefaultWriter, gin.DefaultErrorWriter
	t.Cleanup(func() {
		gin.SetMode(prevMode)
		gin.DefaultWriter, gin.DefaultErrorWriter = prevOut, prevErr
	})

	// stands in for os.Stdout, gin's default destination
	var stdout, logs bytes.Buffer

	gin.DefaultWriter = &stdout
	gin.DefaultErrorWriter = &stdout
	gin.SetMode(gin.DebugMode)

	router := NewServer(areas.New(defaultTable(t), nil, areas.Options{}), Options{LogWriter: &logs}).Router()
	w := get(t, router, "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, logs.String(), "[GIN-debug]")
	assert.Contains(t, logs.String(), "/healthz")
}
