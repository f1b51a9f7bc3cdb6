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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/kehilla/core"
)

// institutionVersion prefixes every encoded record so the layout can evolve.
const institutionVersion = 1

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(id), nil
}

// MarshalInstitution serializes an Institution to bytes.
// The search-time Source tag is not persisted.
func MarshalInstitution(inst *core.Institution) []byte {
	buf := make([]byte, sizeInstitution(inst))
	marshalInstitution(inst, buf)
	return buf
}

// UnmarshalInstitution deserializes an Institution from bytes.
func UnmarshalInstitution(data []byte) (*core.Institution, error) {
	inst, err := unmarshalInstitution(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return inst, nil
}

func institutionStrings(inst *core.Institution) []*string {
	return []*string{
		&inst.Name,
		&inst.Denomination,
		&inst.FullAddress,
		&inst.Phone,
		&inst.Website,
		&inst.PostalCode,
		&inst.Description,
	}
}

func sizeInstitution(inst *core.Institution) int {
	n := varint.Int.Size(institutionVersion)
	n += varint.Uint64.Size(uint64(inst.ID))
	for _, s := range institutionStrings(inst) {
		n += ord.String.Size(*s)
	}
	n += varint.Int.Size(inst.Ordinal)
	n += ord.Bool.Size(inst.LowConfidence)
	n += varint.Int.Size(len(inst.Programs))
	for _, name := range inst.Programs.Names() {
		n += ord.String.Size(name)
		n += ord.String.Size(inst.Programs[name])
	}
	return n
}

func marshalInstitution(inst *core.Institution, bs []byte) int {
	n := varint.Int.Marshal(institutionVersion, bs)
	n += varint.Uint64.Marshal(uint64(inst.ID), bs[n:])
	for _, s := range institutionStrings(inst) {
		n += ord.String.Marshal(*s, bs[n:])
	}
	n += varint.Int.Marshal(inst.Ordinal, bs[n:])
	n += ord.Bool.Marshal(inst.LowConfidence, bs[n:])
	n += varint.Int.Marshal(len(inst.Programs), bs[n:])
	// Sorted keys keep the encoding deterministic.
	for _, name := range inst.Programs.Names() {
		n += ord.String.Marshal(name, bs[n:])
		n += ord.String.Marshal(inst.Programs[name], bs[n:])
	}
	return n
}

func unmarshalInstitution(bs []byte) (*core.Institution, error) {
	version, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, err
	}
	if version != institutionVersion {
		return nil, fmt.Errorf("unsupported record version %d", version)
	}

	inst := &core.Institution{}
	id, m, err := varint.Uint64.Unmarshal(bs[n:])
	if err != nil {
		return nil, err
	}
	n += m
	inst.ID = core.ID(id)

	for _, s := range institutionStrings(inst) {
		*s, m, err = ord.String.Unmarshal(bs[n:])
		if err != nil {
			return nil, err
		}
		n += m
	}

	inst.Ordinal, m, err = varint.Int.Unmarshal(bs[n:])
	if err != nil {
		return nil, err
	}
	n += m

	inst.LowConfidence, m, err = ord.Bool.Unmarshal(bs[n:])
	if err != nil {
		return nil, err
	}
	n += m

	count, m, err := varint.Int.Unmarshal(bs[n:])
	if err != nil {
		return nil, err
	}
	n += m
	if count < 0 || count > len(bs)-n {
		return nil, ErrTruncatedData
	}

	inst.Programs = make(core.Programs, count)
	for i := 0; i < count; i++ {
		name, m, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return nil, err
		}
		n += m
		flag, m, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return nil, err
		}
		n += m
		inst.Programs[name] = flag
	}

	return inst, nil
}
