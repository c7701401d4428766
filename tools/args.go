// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errMissingArgument = errors.New("missing required argument")

// stringArg reads name as a string. Clients are loose about types, so numbers
// and booleans are accepted and formatted.
func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", fmt.Errorf("%w %q", errMissingArgument, name)
	}

	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	default:
		return fmt.Sprint(t), nil
	}
}

// optionalStringArg is stringArg returning "" when name is absent.
func optionalStringArg(args map[string]any, name string) (string, error) {
	if v, ok := args[name]; !ok || v == nil {
		return "", nil
	}

	return stringArg(args, name)
}

// numberArg reads name as a float64, parsing strings such as "5.41".
func numberArg(args map[string]any, name string) (float64, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("%w %q", errMissingArgument, name)
	}

	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("argument %q: %w", name, err)
		}

		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("argument %q is not a number: %q", name, t)
		}

		return f, nil
	default:
		return 0, fmt.Errorf("argument %q is not a number: %v", name, v)
	}
}

// numberArgOr is numberArg with a default for an absent argument.
func numberArgOr(args map[string]any, name string, def float64) (float64, error) {
	if v, ok := args[name]; !ok || v == nil {
		return def, nil
	}

	return numberArg(args, name)
}
