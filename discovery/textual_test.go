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


package discovery

import (
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/kehilla/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTextualResponse_SingleRecord(t *testing.T) {
	text := "Here are some results:\n1. Temple Beth Shalom\nAddress: 123 Main St, Trenton, NJ\nReform congregation with active youth programs."

	got := ParseTextualResponse(text)
	require.Len(t, got, 1)

	inst := got[0]
	assert.Equal(t, "Temple Beth Shalom", inst.Name)
	assert.Equal(t, "123 Main St, Trenton, NJ", inst.FullAddress)
	assert.Equal(t, core.DenominationNotSpecified, inst.Denomination)
	assert.Equal(t, "Reform congregation with active youth programs.", inst.Description)
	assert.Equal(t, core.SourceExternalDiscovery, inst.Source)
	assert.True(t, inst.LowConfidence)
}

func TestParseTextualResponse_Fields(t *testing.T) {
	text := strings.Join([]string{
		"I found these options near Davis:",
		"",
		"**Congregation Bet Haverim**",
		"- Denomination: Reform",
		"- 1623 Oak Ave, Davis, CA 95616",
		"- Phone: (530) 758-0842",
		"- Website: https://www.bethaverim.org",
		"A welcoming community with a strong religious school.",
		"",
		"2. Chabad of Davis - a warm Chabad house",
		"Orthodox",
		"Call 530-220-4329 for details",
		"www.jewishdavis.com",
		"Located near campus, with Shabbat dinners for students.",
		"Programs for families and children every week.",
	}, "\n")

	got := ParseTextualResponse(text)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "Congregation Bet Haverim", first.Name)
	assert.Equal(t, "Reform", first.Denomination)
	assert.Equal(t, "1623 Oak Ave, Davis, CA 95616", first.FullAddress)
	assert.Equal(t, "(530) 758-0842", first.Phone)
	assert.Equal(t, "https://www.bethaverim.org", first.Website)
	assert.Equal(t, "A welcoming community with a strong religious school.", first.Description)

	second := got[1]
	assert.Equal(t, "Chabad of Davis", second.Name)
	assert.Equal(t, "Orthodox", second.Denomination)
	assert.Equal(t, "530-220-4329", second.Phone)
	assert.Equal(t, "www.jewishdavis.com", second.Website)
	assert.Equal(t, core.AddressNotProvided, second.FullAddress)
	assert.Equal(t, "Programs for families and children every week.", second.Description, "last description line wins")
}

func TestParseTextualResponse_NameHeuristics(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{line: "1. Beth El", want: true},
		{line: "3) Kehillat Israel", want: true},
		{line: "- Temple Emanu-El", want: true},
		{line: "Valley Beth Shalom Synagogue", want: true},
		{line: "Rice University Hillel", want: true},
		{line: "Ohev Sholom Shul", want: true},
		{line: "Address: 1 Main St", want: false},
		{line: "1. Address: 1 Main St", want: false},
		{line: "Temple Beth Shalom is a Reform congregation.", want: false},
		{line: "reform congregation", want: false},
		{line: "Here are some results:", want: false},
		{line: "https://www.chabad.org", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, ok := nameLine(tt.line)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestParseTextualResponse_Cap(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "%d. Congregation Number %d\n", i, i)
	}

	got := ParseTextualResponse(b.String())
	require.Len(t, got, MaxTextualRecords)
	assert.Equal(t, "Congregation Number 12", got[11].Name)
}

func TestParseTextualResponse_NoNames(t *testing.T) {
	assert.Empty(t, ParseTextualResponse("I'm sorry, I couldn't find anything for that request."))
	assert.Empty(t, ParseTextualResponse(""))
}
