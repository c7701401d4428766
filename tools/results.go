// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
)

// failure is the body of every error result.
type failure struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func marshal(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}

	return string(b), nil
}

func jsonResult(v any) *mcp.CallToolResult {
	text, err := marshal(v)
	if err != nil {
		return errorResult("Failed to encode result", err)
	}

	return mcp.NewToolResultText(text)
}

// rawResult re-indents a middleware response, prefixed with preamble.
func rawResult(preamble string, raw json.RawMessage) *mcp.CallToolResult {
	var buf bytes.Buffer

	buf.WriteString(preamble)

	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return errorResult("Failed to encode result", err)
	}

	return mcp.NewToolResultText(buf.String())
}

func errorResult(summary string, err error) *mcp.CallToolResult {
	log.Printf("%s: %v", summary, err)

	text, mErr := marshal(failure{Error: summary, Message: err.Error()})
	if mErr != nil {
		text = summary + ": " + err.Error()
	}

	return mcp.NewToolResultError(text)
}
