// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/livetransit/matransit/areas"
	"github.com/spf13/cobra"
)

var areasJSON bool

var areasCmd = &cobra.Command{
	Use:   "areas",
	Short: "List the service areas and the states they cover",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		t, err := rootOptions.table()
		if err != nil {
			return err
		}

		if areasJSON {
			return printJSON(os.Stdout, t.Mapping())
		}

		printAreas(os.Stdout, t.Mapping())

		return nil
	},
}

func printAreas(w io.Writer, m areas.Mapping) {
	a, b, c := strings.Repeat("─", 16), strings.Repeat("─", 18), strings.Repeat("─", 40)
	fmt.Fprintln(w, "Service areas, in matching priority:")
	fmt.Fprintf(w, "╭─%-16s─┬─%-18s─┬─%-40s╮\n", a, b, c)
	fmt.Fprintf(w, "│ %-16s │ %-18s │ %-40s│\n", "Id", "Name", "States")
	fmt.Fprintf(w, "├─%-16s─┼─%-18s─┼─%-40s┤\n", a, b, c)

	for _, area := range m.Areas() {
		fmt.Fprintf(w, "│ %-16s │ %-18s │ %-40s│\n", area.ID, area.Name, abbreviate(strings.Join(area.States, ", "), 40))
	}

	fmt.Fprintf(w, "╰─%-16s─┴─%-18s─┴─%-40s╯\n", a, b, c)
}

func abbreviate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}

func init() {
	rootCmd.AddCommand(areasCmd)
	areasCmd.Flags().BoolVar(&areasJSON, "json", false, "Print the area → states mapping as JSON")
}
