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


package core

import (
	"fmt"
	"strings"
)

// ValidateInstitution validates an Institution loaded into the store.
//
// Validation rules:
//   - Name must not be blank
//   - FullAddress must not be blank
//
// NOT validated:
//   - Source (attached at search time)
//   - Programs (open set, may be empty)
func ValidateInstitution(inst *Institution) error {
	if inst == nil {
		return fmt.Errorf("%w: institution is nil", ErrInvalidInstitution)
	}

	if strings.TrimSpace(inst.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInstitution, ErrEmptyName)
	}

	if strings.TrimSpace(inst.FullAddress) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInstitution, ErrEmptyAddress)
	}

	return nil
}

// ValidateSource validates that a Source has a valid value.
func ValidateSource(s Source) error {
	if s != SourceLocalDatabase && s != SourceExternalDiscovery {
		return fmt.Errorf("%w: value %d", ErrInvalidSource, s)
	}
	return nil
}
