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
	"errors"
	"testing"

	"github.com/poiesic/kehilla/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("Temple Sinai|1 Main St, Davis, CA")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.True(t, errors.Is(err, ErrSerializationFailed))
}

func TestMarshalUnmarshalInstitution(t *testing.T) {
	inst := &core.Institution{
		ID:           core.IDFromContent("Congregation Beth Israel|5600 N Braeswood Blvd, Houston, TX 77096"),
		Name:         "Congregation Beth Israel",
		Denomination: "Reform",
		FullAddress:  "5600 N Braeswood Blvd, Houston, TX 77096",
		Phone:        "(713) 771-6221",
		Website:      "https://www.beth-israel.org",
		PostalCode:   "77096",
		Ordinal:      3,
		Programs: core.Programs{
			core.ProgramHebrewSchool: core.FlagYes,
			core.ProgramYouthGroups:  core.FlagYes,
			"Israel Trips":           core.FlagUnknown,
		},
		Source: core.SourceLocalDatabase,
	}

	data := MarshalInstitution(inst)
	decoded, err := UnmarshalInstitution(data)
	require.NoError(t, err)

	assert.Equal(t, inst.ID, decoded.ID)
	assert.Equal(t, inst.Name, decoded.Name)
	assert.Equal(t, inst.Denomination, decoded.Denomination)
	assert.Equal(t, inst.FullAddress, decoded.FullAddress)
	assert.Equal(t, inst.Phone, decoded.Phone)
	assert.Equal(t, inst.Website, decoded.Website)
	assert.Equal(t, inst.PostalCode, decoded.PostalCode)
	assert.Equal(t, inst.Ordinal, decoded.Ordinal)
	assert.Equal(t, inst.Programs, decoded.Programs)
	assert.Zero(t, decoded.Source, "source tag is never persisted")
}

func TestMarshalInstitution_Deterministic(t *testing.T) {
	inst := &core.Institution{
		Name:        "Chabad of Davis",
		FullAddress: "641 Cantrill Dr, Davis, CA 95618",
		Programs: core.Programs{
			core.ProgramYouthGroups:    core.FlagYes,
			core.ProgramAdultEducation: core.FlagNo,
			core.ProgramHebrewSchool:   core.FlagUnknown,
		},
	}
	assert.Equal(t, MarshalInstitution(inst), MarshalInstitution(inst))
}

func TestUnmarshalInstitution_Invalid(t *testing.T) {
	inst := &core.Institution{Name: "Temple Sinai", FullAddress: "1 Main St, Davis, CA"}
	data := MarshalInstitution(inst)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated", data[:len(data)/2]},
		{"unknown version", append([]byte{0x7f}, data[1:]...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalInstitution(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSerializationFailed))
		})
	}
}
