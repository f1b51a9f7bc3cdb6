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
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/kehilla/core"
)

// MaxTextualRecords caps the output of ParseTextualResponse.
const MaxTextualRecords = 12

const minDescriptionLength = 20

var (
	numberedLine = regexp.MustCompile(`^\d+[.)]\s+(.+)$`)
	bulletLine   = regexp.MustCompile(`^[-*•]\s+(.+)$`)

	// Capitalized keyword anywhere in the line: "Chabad of Davis", "Beth El Jewish Center".
	keywordName = regexp.MustCompile(`\b(Synagogue|Temple|Chabad|Hillel|Jewish|Congregation)\b`)

	// Capitalized phrase ending in a known suffix: "Ohev Sholom Shul".
	suffixName = regexp.MustCompile(`^(?:[A-Z][\w'’.&-]*\s+){1,6}(?:Synagogue|Temple|Center|Centre|Congregation|Shul|House|School|Academy|Minyan)$`)

	labelPattern  = regexp.MustCompile(`(?i)^(address|location|phone|tel|telephone|website|web|url|denomination|affiliation|movement)\s*:\s*(.*)$`)
	streetPattern = regexp.MustCompile(`(?i)\b\d+\s+[\w .'-]+?\b(st|street|ave|avenue|blvd|boulevard|rd|road|dr|drive|ln|lane|way|pl|place|ct|court|pkwy|parkway|hwy|highway|pike|circle|cir)\b\.?`)
	phonePattern  = regexp.MustCompile(`\(?\d{3}\)?[\s.-]?\d{3}[\s.-]\d{4}`)
	urlPattern    = regexp.MustCompile(`(?i)\bhttps?://[^\s)]+|\bwww\.[^\s)]+`)
	prefixLabel   = regexp.MustCompile(`^[\p{L} ]{1,24}:\s+(.+)$`)
)

var knownDenominations = []string{
	"reform", "conservative", "orthodox", "modern orthodox", "reconstructionist",
	"renewal", "humanistic", "chabad", "chabad-lubavitch", "pluralistic",
	"traditional", "sephardic", "post-denominational", "non-denominational",
}

// ParseTextualResponse recovers institutions from free-form text. Lines that
// look like institution names start a record; following lines fill it in by
// keyword sniffing. Lines before the first name are ignored. Every record is
// tagged external and LowConfidence.
func ParseTextualResponse(text string) []core.Institution {
	var records []*Record
	var current *Record

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if name, ok := nameLine(line); ok {
			if len(records) == MaxTextualRecords {
				break
			}
			current = &Record{Name: name}
			records = append(records, current)
			continue
		}
		if current == nil {
			continue
		}
		foldLine(current, stripBullet(line))
	}

	out := make([]core.Institution, len(records))
	for i, r := range records {
		out[i] = r.Institution()
		out[i].LowConfidence = true
	}
	return out
}

// nameLine reports whether line starts a new record and returns the cleaned name.
func nameLine(line string) (string, bool) {
	candidate := stripMarkup(line)
	labeled := labelPattern.MatchString(stripBullet(candidate))

	if m := numberedLine.FindStringSubmatch(candidate); m != nil && !labelPattern.MatchString(m[1]) {
		return cleanName(m[1]), true
	}
	if labeled {
		return "", false
	}
	if m := bulletLine.FindStringSubmatch(candidate); m != nil && looksLikeName(m[1]) {
		return cleanName(m[1]), true
	}
	if looksLikeName(candidate) {
		return cleanName(candidate), true
	}
	return "", false
}

func looksLikeName(s string) bool {
	s = strings.TrimRight(strings.TrimSpace(s), ":")
	if s == "" || !startsUpper(s) || urlPattern.MatchString(s) || phonePattern.MatchString(s) {
		return false
	}
	if keywordName.MatchString(s) && len(strings.Fields(s)) <= 8 && !strings.HasSuffix(s, ".") {
		return true
	}
	return suffixName.MatchString(s)
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	for _, sep := range []string{" - ", " – ", " — ", ": "} {
		if before, _, found := strings.Cut(s, sep); found {
			s = before
		}
	}
	return strings.TrimSpace(strings.TrimRight(s, ":"))
}

func foldLine(r *Record, line string) {
	if m := labelPattern.FindStringSubmatch(line); m != nil {
		value := strings.TrimSpace(m[2])
		switch strings.ToLower(m[1]) {
		case "address", "location":
			r.Address = value
		case "phone", "tel", "telephone":
			r.Phone = ptr(firstMatch(phonePattern, value))
		case "website", "web", "url":
			r.Website = ptr(firstMatch(urlPattern, value))
		default:
			r.Denomination = value
		}
		return
	}

	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "address") || streetPattern.MatchString(line):
		r.Address = afterColon(line)
	case phonePattern.MatchString(line) || strings.Contains(lower, "phone"):
		r.Phone = ptr(firstMatch(phonePattern, afterColon(line)))
	case urlPattern.MatchString(line) || strings.Contains(lower, "website"):
		r.Website = ptr(firstMatch(urlPattern, afterColon(line)))
	case isDenomination(lower):
		r.Denomination = strings.TrimRight(line, ".")
	case len(line) > minDescriptionLength:
		r.Description = line
	}
}

// isDenomination is true only for a line that names a denomination and nothing
// else; descriptive sentences that mention one are descriptions.
func isDenomination(lower string) bool {
	lower = strings.TrimSpace(strings.TrimRight(lower, "."))
	for _, d := range knownDenominations {
		if lower == d || lower == d+" judaism" {
			return true
		}
	}
	return false
}

func stripMarkup(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return strings.TrimSpace(strings.TrimLeft(s, "#"))
}

func stripBullet(s string) string {
	if m := bulletLine.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

func afterColon(s string) string {
	if m := prefixLabel.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(s)
}

func firstMatch(re *regexp.Regexp, s string) string {
	if m := re.FindString(s); m != "" {
		return m
	}
	return s
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func ptr(s string) *string {
	return &s
}
