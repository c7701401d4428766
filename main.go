// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/livetransit/matransit/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
