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


// Package search runs one directory query end to end.
//
// A Searcher dispatches the External Discovery call and the local pipeline
// (analysis, proximity narrowing, scoring) side by side, then concatenates
// the two labelled result sets with external results first. When discovery
// fails the Searcher degrades to an open keyword scan of the whole store.
//
// Batch evaluates many queries on a worker pool and reports progress.
package search
