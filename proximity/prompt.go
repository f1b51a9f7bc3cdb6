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


package proximity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/poiesic/kehilla/core"
)

// Request parameters for the proximity judgment.
const (
	MaxTokens   = 500
	Temperature = 0.1
)

func buildPrompt(primary string, candidates []core.Institution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target location: %q\n\n", primary)
	b.WriteString("Below is a numbered list of Jewish institutions with their addresses. ")
	b.WriteString("Return the index of every institution located within roughly a 1-hour drive of the target location.\n\n")
	b.WriteString("Judge only by the city and state of each address. Street names are not locations: ")
	b.WriteString("\"14506 California St, Omaha, NE\" is in Omaha, Nebraska, not in California.\n\n")
	b.WriteString("Respond with only a JSON array of integers, for example [0, 3, 7]. Respond with [] if none qualify.\n\n")
	for i := range candidates {
		fmt.Fprintf(&b, "%d. %s | %s\n", i, candidates[i].Name, candidates[i].FullAddress)
	}
	return b.String()
}

// ParseIndices reads a strict JSON array of integers from model output. A
// fenced block or surrounding prose is tolerated; anything that does not
// decode as []int is an error.
func ParseIndices(content string) ([]int, error) {
	s := strings.TrimSpace(content)
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		if start >= 0 {
			// Truncated array; let jsonrepair close it.
			s = s[start:]
		} else {
			return nil, fmt.Errorf("%w: no array in response", ErrInvalidJudgment)
		}
	} else {
		s = s[start : end+1]
	}

	var indices []int
	if err := json.Unmarshal([]byte(s), &indices); err == nil {
		return indices, nil
	}

	repaired, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJudgment, err)
	}
	if err := json.Unmarshal([]byte(repaired), &indices); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJudgment, err)
	}
	return indices, nil
}
