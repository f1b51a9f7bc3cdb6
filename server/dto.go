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


package server

import (
	"fmt"

	"github.com/poiesic/kehilla/core"
	"github.com/poiesic/kehilla/directory"
	"github.com/poiesic/kehilla/search"
)

type institutionJSON struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Denomination  string            `json:"denomination"`
	Address       string            `json:"address"`
	Phone         string            `json:"phone,omitempty"`
	Website       string            `json:"website,omitempty"`
	Programs      map[string]string `json:"programs"`
	Type          string            `json:"type"`
	Source        string            `json:"source,omitempty"`
	PostalCode    string            `json:"postal_code,omitempty"`
	Description   string            `json:"description,omitempty"`
	LowConfidence bool              `json:"low_confidence,omitempty"`
	Distance      *int              `json:"distance,omitempty"`
}

func toJSON(inst *core.Institution) institutionJSON {
	programs := make(map[string]string, len(inst.Programs))
	for name, flag := range inst.Programs {
		programs[name] = flag
	}
	out := institutionJSON{
		ID:            fmt.Sprintf("%016x", uint64(inst.ID)),
		Name:          inst.Name,
		Denomination:  inst.Denomination,
		Address:       inst.FullAddress,
		Phone:         inst.Phone,
		Website:       inst.Website,
		Programs:      programs,
		Type:          string(core.TypeOf(inst)),
		PostalCode:    inst.PostalCode,
		Description:   inst.Description,
		LowConfidence: inst.LowConfidence,
	}
	if inst.Source != 0 {
		out.Source = inst.Source.String()
	}
	return out
}

func listJSON(list []core.Institution) []institutionJSON {
	out := make([]institutionJSON, len(list))
	for i := range list {
		out[i] = toJSON(&list[i])
	}
	return out
}

func zipJSON(matches []directory.ZipMatch) []institutionJSON {
	out := make([]institutionJSON, len(matches))
	for i := range matches {
		out[i] = toJSON(&matches[i].Institution)
		distance := matches[i].Distance
		out[i].Distance = &distance
	}
	return out
}

type searchResponse struct {
	RequestID string            `json:"request_id,omitempty"`
	Query     string            `json:"query"`
	State     search.State      `json:"state"`
	Degraded  bool              `json:"degraded"`
	Count     int               `json:"count"`
	Results   []institutionJSON `json:"results"`
	Error     string            `json:"error,omitempty"`
}

func newSearchResponse(res *search.Result) searchResponse {
	out := searchResponse{
		RequestID: res.RequestID,
		Query:     res.Query,
		State:     res.State,
		Degraded:  res.Degraded,
		Count:     len(res.Institutions),
		Results:   listJSON(res.Institutions),
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}

type listResponse struct {
	Count   int               `json:"count"`
	Results []institutionJSON `json:"results"`
}

func newListResponse(results []institutionJSON) listResponse {
	return listResponse{Count: len(results), Results: results}
}
