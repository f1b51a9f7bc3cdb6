// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/kehilla/core"
	"github.com/poiesic/kehilla/directory"
	"github.com/poiesic/kehilla/search"
	"github.com/urfave/cli/v2"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printInstitution(w io.Writer, n int, inst *core.Institution) {
	tag := ""
	switch {
	case inst.LowConfidence:
		tag = " [external, low confidence]"
	case inst.Source != 0:
		tag = " [" + inst.Source.String() + "]"
	}
	fmt.Fprintf(w, "%d. %s%s\n", n, inst.Name, tag)
	fmt.Fprintf(w, "   %s | %s\n", inst.Denomination, inst.FullAddress)
	if contact := strings.Join(nonEmpty(inst.Phone, inst.Website), " | "); contact != "" {
		fmt.Fprintf(w, "   %s\n", contact)
	}
	var offered []string
	for _, name := range inst.Programs.Names() {
		if inst.Programs.Has(name) {
			offered = append(offered, name)
		}
	}
	if len(offered) > 0 {
		fmt.Fprintf(w, "   Programs: %s\n", strings.Join(offered, ", "))
	}
	if inst.Description != "" {
		fmt.Fprintf(w, "   %s\n", inst.Description)
	}
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func printInstitutions(c *cli.Context, list []core.Institution) error {
	if c.Bool("json") {
		return writeJSON(c.App.Writer, list)
	}
	w := c.App.Writer
	if len(list) == 0 {
		fmt.Fprintln(w, "No institutions found.")
		return nil
	}
	for i := range list {
		printInstitution(w, i+1, &list[i])
	}
	return nil
}

func printZipMatches(w io.Writer, matches []directory.ZipMatch) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No institutions found.")
		return
	}
	for i := range matches {
		printInstitution(w, i+1, &matches[i].Institution)
		if matches[i].Distance > 0 {
			fmt.Fprintf(w, "   Postal code %s (%d away)\n", matches[i].PostalCode, matches[i].Distance)
		}
	}
}

func printResult(w io.Writer, res *search.Result) {
	switch res.State {
	case search.StateIdle:
		fmt.Fprintln(w, "Nothing to search for.")
		return
	case search.StateDegraded:
		fmt.Fprintf(w, "AI search unavailable (%v); showing offline results.\n", res.Err)
	default:
		fmt.Fprintf(w, "%d AI results, %d from the local directory.\n", len(res.External), len(res.Local))
	}
	if len(res.Institutions) == 0 {
		fmt.Fprintln(w, "No institutions found.")
		return
	}
	for i := range res.Institutions {
		printInstitution(w, i+1, &res.Institutions[i])
	}
}

type searchOutput struct {
	RequestID string             `json:"request_id,omitempty"`
	Query     string             `json:"query"`
	State     search.State       `json:"state"`
	Degraded  bool               `json:"degraded"`
	Error     string             `json:"error,omitempty"`
	Results   []core.Institution `json:"results"`
}

func searchJSON(res *search.Result) searchOutput {
	out := searchOutput{
		RequestID: res.RequestID,
		Query:     res.Query,
		State:     res.State,
		Degraded:  res.Degraded,
		Results:   res.Institutions,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}

type batchLine struct {
	Query     string `json:"query"`
	RequestID string `json:"request_id,omitempty"`
	State     string `json:"state"`
	Degraded  bool   `json:"degraded"`
	External  int    `json:"external"`
	Local     int    `json:"local"`
	Total     int    `json:"total"`
	Error     string `json:"error,omitempty"`
}

func batchJSON(results []search.BatchResult) []batchLine {
	out := make([]batchLine, len(results))
	for i, r := range results {
		line := batchLine{Query: r.Query}
		if r.Err != nil {
			line.Error = r.Err.Error()
		}
		if res := r.Result; res != nil {
			line.RequestID = res.RequestID
			line.State = res.State.String()
			line.Degraded = res.Degraded
			line.External = len(res.External)
			line.Local = len(res.Local)
			line.Total = len(res.Institutions)
			if res.Err != nil {
				line.Error = res.Err.Error()
			}
		}
		out[i] = line
	}
	return out
}

func printBatch(w io.Writer, results []search.BatchResult) {
	for _, line := range batchJSON(results) {
		fmt.Fprintf(w, "%-10s %3d  %s", line.State, line.Total, line.Query)
		if line.Error != "" {
			fmt.Fprintf(w, "  (%s)", line.Error)
		}
		fmt.Fprintln(w)
	}
}
