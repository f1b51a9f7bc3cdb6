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


// Package discovery asks a generative-text service for Jewish institutions
// matching a free-form query and turns the reply into core.Institution records.
//
// Replies are classified into a small tagged variant: Structured (a JSON
// institution list, possibly after cleanup and repair), RawText (anything the
// structured parser could not read) and TransportFailure. RawText is recovered
// by a line-oriented parser whose output is marked LowConfidence. Transport
// and schema failures are returned to the caller.
package discovery
