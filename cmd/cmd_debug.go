// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/livetransit/matransit/tools"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var debugOptions struct {
	Progress    bool
	Concurrency int
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Resolve locations read from stdin to service areas",
	Long: `Reads one location per line, and prints the location followed by the
detection result.

$ echo Komtar | matransit debug detect
Komtar		{"success":true,"area":"penang","confidence":"high",...}
	`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resolver, geocoding, err := rootOptions.resolver(cmd.Context())
		if err != nil {
			return fmt.Errorf("building area resolver: %w", err)
		}

		if !geocoding {
			log.Print("only the gazetteer will be consulted")
		}

		input := os.Stdin
		if isatty.IsTerminal(input.Fd()) {
			fmt.Fprintln(os.Stderr, "Enter locations to resolve, one per line…")
		}

		locations, err := readLines(input)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		var bar *progressbar.ProgressBar
		if debugOptions.Progress && isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(locations),
				progressbar.OptionSetDescription("Detecting"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		results := detectAll(cmd.Context(), resolver, locations, debugOptions.Concurrency, func() {
			if bar != nil {
				_ = bar.Add(1)
			}
		})

		for i, res := range results {
			s, err := json.Marshal(res)
			if err != nil {
				return err
			}

			fmt.Printf("%s\t\t%s\n", locations[i], s)
		}

		return nil
	},
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines, scanner.Err()
}

// detectAll resolves locations with at most maxProcs lookups in flight. The
// results keep the input order.
func detectAll(ctx context.Context, d tools.Detector, locations []string, maxProcs int, done func()) []tools.Detection {
	if maxProcs <= 0 {
		maxProcs = runtime.NumCPU()
	}

	results := make([]tools.Detection, len(locations))
	semaphore := make(chan struct{}, maxProcs)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for i, location := range locations {
		wg.Add(1)

		go func() {
			defer wg.Done()
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			results[i] = tools.Detect(ctx, d, location)

			mu.Lock()
			done()
			mu.Unlock()
		}()
	}

	wg.Wait()

	return results
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugDetectCmd)
	debugDetectCmd.Flags().BoolVar(
		&debugOptions.Progress,
		"progress",
		false,
		"Show a progress bar on stderr when it is a terminal",
	)
	debugDetectCmd.Flags().IntVar(
		&debugOptions.Concurrency,
		"concurrency",
		4,
		"Max number of lookups in flight. Zero means the number of CPUs",
	)
}
