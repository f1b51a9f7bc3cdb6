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


package search

import (
	"github.com/poiesic/kehilla/core"
	"github.com/poiesic/kehilla/query"
	"github.com/poiesic/kehilla/scoring"
)

// SearchMonitor receives callbacks as a query moves through the pipeline.
// The local pipeline reports from a pool worker, so implementations must be
// safe for concurrent use. Finish is always the last call.
type SearchMonitor interface {
	Start(requestID, query string)
	StateChanged(from, to State)
	AfterAnalysis(analysis query.Analysis)
	AfterDiscovery(external []core.Institution, err error)
	AfterProximity(considered int, nearby []core.Institution)
	AfterScoring(ranked []scoring.Candidate)
	Finish(result *Result)
}

type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                            {}
func (n *noopMonitor) StateChanged(_, _ State)                      {}
func (n *noopMonitor) AfterAnalysis(_ query.Analysis)               {}
func (n *noopMonitor) AfterDiscovery(_ []core.Institution, _ error) {}
func (n *noopMonitor) AfterProximity(_ int, _ []core.Institution)   {}
func (n *noopMonitor) AfterScoring(_ []scoring.Candidate)           {}
func (n *noopMonitor) Finish(_ *Result)                             {}
