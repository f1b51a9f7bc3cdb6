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


package discovery

import (
	"fmt"
	"strings"

	"github.com/poiesic/kehilla/core"
)

// Request parameters for the discovery call.
const (
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 2000
)

var systemInstruction = buildSystemInstruction()

func buildSystemInstruction() string {
	var programs strings.Builder
	for i, name := range core.DiscoveryPrograms {
		if i > 0 {
			programs.WriteString(",\n")
		}
		fmt.Fprintf(&programs, "        %q: \"Yes\" | \"No\" | \"Unknown\"", name)
	}

	return `You are a knowledgeable directory assistant for Jewish community life in the United States.
Given a user's request, list real synagogues, temples, Chabad houses, Hillels, Jewish schools and
Jewish community centers that match it. Aim for 8 to 12 institutions.

Respond with pure JSON only. No prose, no markdown, no code fences. Use exactly this schema:

{
  "institutions": [
    {
      "name": string,
      "denomination": string,
      "address": string (street, city, state and ZIP),
      "phone": string | null,
      "website": string | null,
      "programs": {
` + programs.String() + `
      },
      "description": string (one or two sentences)
    }
  ]
}

Rules:
- Only include institutions you are confident exist. Never invent addresses or phone numbers;
  use null when unsure.
- Use "Unknown" for any program you cannot confirm.
- If the request is about children or teens (youth groups, Hebrew school, Bar or Bat Mitzvah
  preparation, a son or daughter), do NOT include college or university Hillel chapters.
- If the request names a place, only include institutions within roughly a one-hour drive of it.`
}

// SystemInstruction returns the fixed system prompt sent with every discovery request.
func SystemInstruction() string {
	return systemInstruction
}

func userMessage(query string) string {
	return "Find Jewish institutions for this request: " + query
}
