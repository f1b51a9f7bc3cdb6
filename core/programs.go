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
	"slices"
	"strings"
)

// Tri-state program flag values.
const (
	FlagYes     = "Yes"
	FlagNo      = "No"
	FlagUnknown = "Unknown"
)

// Well-known program names. The program set is open; these are the keys the
// discovery schema asks for and the funnels filter on.
const (
	ProgramHebrewSchool   = "Hebrew School"
	ProgramYouthGroups    = "Youth Groups"
	ProgramAdultEducation = "Adult Education"
	ProgramFamilyLearning = "Family and Intergenerational Learning"
	ProgramBarBatMitzvah  = "Bar/Bat Mitzvah Preparation"
	ProgramOnlineServices = "Online Services"
)

// DiscoveryPrograms lists the fixed program keys requested from external discovery.
var DiscoveryPrograms = []string{
	ProgramHebrewSchool,
	ProgramYouthGroups,
	ProgramAdultEducation,
	ProgramFamilyLearning,
	ProgramBarBatMitzvah,
	ProgramOnlineServices,
}

// Programs maps program names to a tri-state textual flag.
type Programs map[string]string

// Has reports whether the named program is offered.
func (p Programs) Has(name string) bool {
	return strings.Contains(strings.ToLower(p[name]), "yes")
}

// Names returns the program names in sorted order.
func (p Programs) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NormalizeFlag maps free text to one of Yes, No or Unknown.
func NormalizeFlag(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "true", "1", "offered", "available":
		return FlagYes
	case "no", "n", "false", "0", "none":
		return FlagNo
	default:
		return FlagUnknown
	}
}

// InstitutionType is a coarse classification used for display and funnel filtering.
type InstitutionType string

const (
	TypeSynagogue InstitutionType = "synagogue"
	TypeSchool    InstitutionType = "school"
	TypeYouth     InstitutionType = "youth"
	TypeCommunity InstitutionType = "community"
	TypeHillel    InstitutionType = "hillel"
)

// TypeOf classifies an institution from its name and programs.
func TypeOf(inst *Institution) InstitutionType {
	switch {
	case strings.Contains(strings.ToLower(inst.Name), "hillel"):
		return TypeHillel
	case inst.Programs.Has(ProgramHebrewSchool):
		return TypeSchool
	case inst.Programs.Has(ProgramYouthGroups):
		return TypeYouth
	case inst.Programs.Has(ProgramFamilyLearning):
		return TypeCommunity
	default:
		return TypeSynagogue
	}
}
