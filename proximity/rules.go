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
	"strings"
	"unicode"

	"github.com/poiesic/kehilla/core"
)

// FallbackLimit caps the output of the rule-table fallback.
const FallbackLimit = 10

type metroRule struct {
	name string
	// targets reports whether the primary location names this metro.
	targets func(primary string) bool
	// contains reports whether a city/state portion lies in the metro.
	contains func(cityState string) bool
}

var (
	davisArea = []string{"davis", "sacramento", "woodland", "dixon", "winters", "vacaville", "elk grove", "roseville"}

	houstonSuburbs = []string{
		"bellaire", "sugar land", "katy", "pearland", "the woodlands", "spring", "missouri city",
		"pasadena", "baytown", "humble", "cypress", "league city", "friendswood", "stafford",
		"kingwood", "conroe", "west university place", "meyerland",
	}

	nycNames = []string{"new york", "nyc", "manhattan", "brooklyn", "queens", "bronx", "staten island"}

	laArea = []string{
		"los angeles", "encino", "beverly hills", "santa monica", "sherman oaks", "west hollywood",
		"burbank", "culver city", "studio city", "van nuys", "north hollywood", "calabasas",
		"glendale", "tarzana", "woodland hills", "pasadena", "malibu", "venice",
	}
)

// Rules are checked in order; the first whose target matches decides.
var metroRules = []metroRule{
	{
		name:    "davis",
		targets: func(p string) bool { return strings.Contains(p, "davis") },
		contains: func(cs string) bool {
			return containsAny(cs, davisArea) && inCalifornia(cs)
		},
	},
	{
		name: "california",
		targets: func(p string) bool {
			return p == "california" || p == "ca" || p == "northern california" || p == "southern california"
		},
		contains: inCalifornia,
	},
	{
		name:    "houston",
		targets: func(p string) bool { return strings.Contains(p, "houston") },
		contains: func(cs string) bool {
			if strings.Contains(cs, "houston") {
				return true
			}
			return containsAny(cs, houstonSuburbs) && inTexas(cs)
		},
	},
	{
		name: "nyc",
		targets: func(p string) bool {
			return containsAny(p, nycNames)
		},
		contains: func(cs string) bool {
			return containsAny(cs, nycNames)
		},
	},
	{
		name: "los-angeles",
		targets: func(p string) bool {
			return strings.Contains(p, "los angeles") || p == "la" || p == "l.a."
		},
		contains: func(cs string) bool {
			return containsAny(cs, laArea) && inCalifornia(cs)
		},
	},
}

// Fallback filters candidates with the metro rule table. Locations the table
// does not recognize use a substring match against each candidate's
// city/state portion; codes of two letters or fewer must match a whole word.
// The street part of an address never matches, so
// "California St, Omaha, NE" is not in California. At most FallbackLimit
// candidates are returned, in input order.
func Fallback(candidates []core.Institution, primary string) []core.Institution {
	p := strings.ToLower(strings.TrimSpace(primary))
	out := []core.Institution{}
	if p == "" {
		return out
	}

	match := func(cs string) bool { return strings.Contains(cs, p) }
	if len([]rune(p)) <= 2 {
		match = func(cs string) bool { return hasToken(cs, p) }
	}
	for _, rule := range metroRules {
		if rule.targets(p) {
			match = rule.contains
			break
		}
	}

	for i := range candidates {
		cs := strings.ToLower(candidates[i].CityState())
		if match(cs) {
			out = append(out, candidates[i])
			if len(out) == FallbackLimit {
				break
			}
		}
	}
	return out
}

// MetroName returns the rule that would handle primary, or "" for the
// substring match.
func MetroName(primary string) string {
	p := strings.ToLower(strings.TrimSpace(primary))
	for _, rule := range metroRules {
		if rule.targets(p) {
			return rule.name
		}
	}
	return ""
}

func inCalifornia(cs string) bool {
	return strings.Contains(cs, "california") || hasToken(cs, "ca")
}

func inTexas(cs string) bool {
	return strings.Contains(cs, "texas") || hasToken(cs, "tx")
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// hasToken reports whether s contains tok as a whole letter run.
func hasToken(s, tok string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }) {
		if f == tok {
			return true
		}
	}
	return false
}
