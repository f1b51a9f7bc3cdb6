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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/poiesic/kehilla/core"
)

// Response is the classified outcome of one discovery call.
// It is one of Structured, RawText or TransportFailure.
type Response interface {
	isResponse()
}

// Structured is a reply that parsed as an institution list.
type Structured struct {
	Records  []Record
	Repaired bool // parsed only after jsonrepair
}

// RawText is a reply the structured parser could not read.
type RawText struct {
	Text string
}

// TransportFailure is a failed call: unreachable service, non-2xx status,
// timeout or a malformed envelope.
type TransportFailure struct {
	Err error
}

func (Structured) isResponse()       {}
func (RawText) isResponse()          {}
func (TransportFailure) isResponse() {}

// Record is one institution as described by the discovery schema.
type Record struct {
	Name         string         `json:"name"`
	Denomination string         `json:"denomination"`
	Address      string         `json:"address"`
	Phone        *string        `json:"phone"`
	Website      *string        `json:"website"`
	Programs     map[string]any `json:"programs"`
	Description  string         `json:"description"`
}

type envelope struct {
	Institutions []Record `json:"institutions"`
}

// Classify runs the cleanup pipeline over message content and returns
// Structured when it parses, RawText otherwise.
func Classify(content string) Response {
	cleaned := Clean(content)
	records, err := ParseStructured(cleaned)
	if err == nil {
		return Structured{Records: records}
	}

	if looksStructured(cleaned) {
		if repaired, rerr := jsonrepair.JSONRepair(cleaned); rerr == nil {
			if records, err := ParseStructured(repaired); err == nil {
				return Structured{Records: records, Repaired: true}
			}
		}
	}
	return RawText{Text: content}
}

// Clean trims the content, strips a fenced code block wrapper and discards any
// prose before the first '{'. Content that already starts with '[' is kept.
func Clean(content string) string {
	s := strings.TrimSpace(content)
	s = stripFence(s)
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}
	if i := strings.Index(s, "{"); i >= 0 {
		return s[i:]
	}
	return s
}

func stripFence(s string) string {
	start := strings.Index(s, "```")
	if start < 0 {
		return s
	}
	body := s[start+3:]
	// Drop the info string ("json") on the opening fence line.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		return s
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

func looksStructured(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// ParseStructured accepts an {"institutions": [...]} envelope, a bare array
// or a single bare object.
func ParseStructured(s string) ([]Record, error) {
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnstructured, err)
	}

	switch {
	case strings.HasPrefix(s, "["):
		var records []Record
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnstructured, err)
		}
		return records, nil

	case strings.HasPrefix(s, "{"):
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnstructured, err)
		}
		if _, ok := probe["institutions"]; ok {
			var env envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrUnstructured, err)
			}
			return env.Institutions, nil
		}
		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnstructured, err)
		}
		return []Record{record}, nil

	default:
		return nil, ErrUnstructured
	}
}

// Institution converts a record, substituting placeholders for missing fields.
func (r *Record) Institution() core.Institution {
	inst := core.Institution{
		Name:         placeholder(r.Name, core.UnknownInstitution),
		Denomination: placeholder(r.Denomination, core.DenominationNotSpecified),
		FullAddress:  placeholder(r.Address, core.AddressNotProvided),
		Phone:        deref(r.Phone),
		Website:      deref(r.Website),
		Description:  strings.TrimSpace(r.Description),
		Programs:     make(core.Programs, len(core.DiscoveryPrograms)),
		Source:       core.SourceExternalDiscovery,
	}
	for _, name := range core.DiscoveryPrograms {
		inst.Programs[name] = core.FlagUnknown
	}
	for name, v := range r.Programs {
		inst.Programs[name] = programFlag(v)
	}
	inst.ID = core.IDFromContent(inst.ContentKey())
	return inst
}

// Institutions converts a record list.
func Institutions(records []Record) []core.Institution {
	out := make([]core.Institution, len(records))
	for i := range records {
		out[i] = records[i].Institution()
	}
	return out
}

func programFlag(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return core.FlagYes
		}
		return core.FlagNo
	case string:
		return core.NormalizeFlag(t)
	default:
		return core.FlagUnknown
	}
}

func placeholder(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
