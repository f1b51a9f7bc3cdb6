package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "name and address", content: "Temple Beth Shalom|123 Main St, Trenton, NJ"},
		{name: "empty string", content: ""},
		{name: "unicode content", content: "Congregation Shaarei Tefillah|Брайтон-Бич, Brooklyn, NY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)
			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}

	t.Run("different content produces different IDs", func(t *testing.T) {
		assert.NotEqual(t, IDFromContent("a|b"), IDFromContent("a|c"))
	})
}

func TestInstitution_CityState(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{name: "street city state", address: "123 Main St, Trenton, NJ 08608", want: "Trenton, NJ 08608"},
		{name: "street name looks like a state", address: "500 California St, Omaha, NE", want: "Omaha, NE"},
		{name: "no comma", address: "Houston TX", want: "Houston TX"},
		{name: "empty", address: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := Institution{FullAddress: tt.address}
			assert.Equal(t, tt.want, inst.CityState())
		})
	}
}

func TestInstitution_WithSource(t *testing.T) {
	orig := Institution{Name: "Beth El", Source: SourceLocalDatabase}
	tagged := orig.WithSource(SourceExternalDiscovery)

	assert.Equal(t, SourceExternalDiscovery, tagged.Source)
	assert.Equal(t, SourceLocalDatabase, orig.Source, "original must not be mutated")
}

func TestTagAll(t *testing.T) {
	in := []Institution{{Name: "A"}, {Name: "B"}}
	out := TagAll(in, SourceLocalDatabase)

	assert.Len(t, out, 2)
	for _, inst := range out {
		assert.Equal(t, SourceLocalDatabase, inst.Source)
	}
	assert.Zero(t, in[0].Source)
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "local", SourceLocalDatabase.String())
	assert.Equal(t, "external", SourceExternalDiscovery.String())
	assert.Equal(t, "unknown", Source(0).String())
}

func TestPrograms(t *testing.T) {
	p := Programs{
		ProgramHebrewSchool:   "Yes",
		ProgramYouthGroups:    "yes, grades 6-12",
		ProgramAdultEducation: "No",
	}

	t.Run("Has", func(t *testing.T) {
		assert.True(t, p.Has(ProgramHebrewSchool))
		assert.True(t, p.Has(ProgramYouthGroups))
		assert.False(t, p.Has(ProgramAdultEducation))
		assert.False(t, p.Has(ProgramFamilyLearning))
	})

	t.Run("nil map", func(t *testing.T) {
		var empty Programs
		assert.False(t, empty.Has(ProgramHebrewSchool))
		assert.Empty(t, empty.Names())
	})

	t.Run("Names sorted", func(t *testing.T) {
		assert.Equal(t, []string{ProgramAdultEducation, ProgramHebrewSchool, ProgramYouthGroups}, p.Names())
	})
}

func TestNormalizeFlag(t *testing.T) {
	tests := map[string]string{
		"Yes":     FlagYes,
		" yes ":   FlagYes,
		"TRUE":    FlagYes,
		"no":      FlagNo,
		"None":    FlagNo,
		"":        FlagUnknown,
		"maybe":   FlagUnknown,
		"Unknown": FlagUnknown,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, NormalizeFlag(in))
		})
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		inst Institution
		want InstitutionType
	}{
		{
			name: "hillel by name",
			inst: Institution{Name: "Rice University Hillel", Programs: Programs{ProgramHebrewSchool: "Yes"}},
			want: TypeHillel,
		},
		{
			name: "school by program",
			inst: Institution{Name: "Beth Israel", Programs: Programs{ProgramHebrewSchool: "Yes", ProgramYouthGroups: "Yes"}},
			want: TypeSchool,
		},
		{
			name: "youth by program",
			inst: Institution{Name: "Beth Israel", Programs: Programs{ProgramYouthGroups: "Yes"}},
			want: TypeYouth,
		},
		{
			name: "community by program",
			inst: Institution{Name: "Beth Israel", Programs: Programs{ProgramFamilyLearning: "Yes"}},
			want: TypeCommunity,
		},
		{
			name: "synagogue default",
			inst: Institution{Name: "Beth Israel"},
			want: TypeSynagogue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(&tt.inst))
		})
	}
}
