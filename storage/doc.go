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


// Package storage provides the storage abstraction layer for kehilla.
//
// The institution document is loaded once and treated as immutable for the
// lifetime of a process, but it is also persisted so that a directory can be
// imported once and reopened without re-parsing the source document. This
// package defines the repository interface for that persisted copy and the
// binary record codec shared by implementations.
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return the interface:
//
//	repo, err := badger.NewInstitutionRepository(backend)  // storage.InstitutionRepository
//
// Test helpers may return concrete types where assertions need them.
//
// # Serialization
//
// Records are encoded with mus-go. The encoding is versioned and writes
// program maps in sorted key order so identical records encode identically.
// The search-time Source tag is never written.
package storage
