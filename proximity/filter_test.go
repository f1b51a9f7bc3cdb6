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


package proximity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/kehilla/ai"
	"github.com/poiesic/kehilla/ai/mock"
	"github.com/poiesic/kehilla/core"
	"github.com/poiesic/kehilla/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(list []core.Institution) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].Name
	}
	return out
}

func TestFallback(t *testing.T) {
	candidates := directory.NewSampleStore().All()

	tests := []struct {
		primary string
		want    []string
	}{
		{primary: "Houston", want: []string{
			"Rice University Hillel", "Congregation Beth Israel", "Congregation Beth Yeshurun",
			"Chabad of Bellaire", "Congregation Or Ami",
		}},
		{primary: "davis", want: []string{
			"Congregation Bet Haverim", "UC Davis Hillel", "Chabad of Davis", "Congregation B'nai Israel",
		}},
		{primary: "Davis, CA", want: []string{
			"Congregation Bet Haverim", "UC Davis Hillel", "Chabad of Davis", "Congregation B'nai Israel",
		}},
		{primary: "california", want: []string{
			"Sinai Temple", "Valley Beth Shalom", "Congregation Bet Haverim", "UC Davis Hillel",
			"Chabad of Davis", "Congregation B'nai Israel",
		}},
		{primary: "los angeles", want: []string{"Sinai Temple", "Valley Beth Shalom"}},
		{primary: "brooklyn", want: []string{"Temple Emanu-El", "Kingsway Jewish Center"}},
		{primary: "nyc", want: []string{"Temple Emanu-El", "Kingsway Jewish Center"}},
		{primary: "omaha", want: []string{"Beth El Synagogue"}},
		{primary: "68154", want: []string{"Beth El Synagogue"}},
		{primary: "trenton", want: []string{}},
		{primary: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.primary, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Fallback(candidates, tt.primary)))
		})
	}
}

func TestFallback_StreetNamesAreNotPlaces(t *testing.T) {
	omaha := core.Institution{Name: "Beth El Synagogue", FullAddress: "14506 California St, Omaha, NE 68154"}
	assert.Empty(t, Fallback([]core.Institution{omaha}, "California"))
	assert.Len(t, Fallback([]core.Institution{omaha}, "Omaha"), 1)
}

func TestFallback_ShortCodesMatchWholeWords(t *testing.T) {
	candidates := []core.Institution{
		{Name: "Sacramento", FullAddress: "1 J St, Sacramento, CA 95814"},
		{Name: "New York", FullAddress: "1 E 65th St, New York, NY 10065"},
		{Name: "Portland", FullAddress: "1 SW Main St, Portland, OR 97204"},
	}
	assert.Empty(t, Fallback(candidates, "me"))
	assert.Equal(t, []string{"Portland"}, names(Fallback(candidates, "or")))
}

func TestFallback_HoustonSuburbsRequireTexas(t *testing.T) {
	candidates := []core.Institution{
		{Name: "Pasadena CA", FullAddress: "1 Colorado Blvd, Pasadena, CA 91101"},
		{Name: "Pasadena TX", FullAddress: "1 Main St, Pasadena, Texas 77506"},
		{Name: "Houston proper", FullAddress: "1 Main St, Houston, TX 77002"},
	}
	assert.Equal(t, []string{"Pasadena TX", "Houston proper"}, names(Fallback(candidates, "houston")))
}

func TestFallback_Deterministic(t *testing.T) {
	candidates := directory.NewSampleStore().All()
	first := Fallback(candidates, "Houston")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Fallback(candidates, "Houston"))
	}
}

func TestFallback_Cap(t *testing.T) {
	candidates := make([]core.Institution, 15)
	for i := range candidates {
		candidates[i] = core.Institution{Name: fmt.Sprintf("Shul %d", i), FullAddress: "1 Main St, Houston, TX 77002"}
	}
	got := Fallback(candidates, "houston")
	require.Len(t, got, FallbackLimit)
	assert.Equal(t, "Shul 9", got[9].Name)
}

func TestMetroName(t *testing.T) {
	assert.Equal(t, "davis", MetroName("Davis"))
	assert.Equal(t, "houston", MetroName("houston"))
	assert.Equal(t, "nyc", MetroName("Queens"))
	assert.Equal(t, "los-angeles", MetroName("LA"))
	assert.Equal(t, "california", MetroName("California"))
	assert.Equal(t, "", MetroName("omaha"))
}

func TestFilter_ModelJudgment(t *testing.T) {
	candidates := directory.NewSampleStore().All()

	tests := []struct {
		name     string
		response string
		want     []int
	}{
		{name: "plain array", response: "[0, 2]", want: []int{0, 2}},
		{name: "out of order in fence", response: "```json\n[2, 0]\n```", want: []int{0, 2}},
		{name: "with prose", response: "Here you go: [1]", want: []int{1}},
		{name: "out of range ignored", response: "[0, 99, -1]", want: []int{0}},
		{name: "duplicates", response: "[3, 3]", want: []int{3}},
		{name: "none", response: "[]", want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := NewFilter(mock.Responding(tt.response))
			require.NoError(t, err)
			defer filter.Release()

			got := filter.Filter(context.Background(), candidates, []string{"houston"})

			want := make([]string, len(tt.want))
			for i, idx := range tt.want {
				want[i] = candidates[idx].Name
			}
			assert.Equal(t, want, names(got))
		})
	}
}

func TestFilter_Request(t *testing.T) {
	candidates := directory.NewSampleStore().All()
	chat := mock.Responding("[]")
	filter, err := NewFilter(chat)
	require.NoError(t, err)
	defer filter.Release()

	filter.Filter(context.Background(), candidates, []string{"omaha", "davis"})

	require.Equal(t, 1, chat.CallCount())
	req := chat.Requests()[0]
	require.Len(t, req.Messages, 1)
	assert.Equal(t, ai.RoleUser, req.Messages[0].Role)
	assert.Equal(t, MaxTokens, req.MaxTokens)
	assert.Greater(t, req.Temperature, 0.0)

	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, `"omaha"`)
	assert.NotContains(t, prompt, `"davis"`)
	assert.Contains(t, prompt, "California St")
	for i, inst := range candidates {
		assert.Contains(t, prompt, fmt.Sprintf("%d. %s | %s", i, inst.Name, inst.FullAddress))
	}
}

func TestFilter_FallsBack(t *testing.T) {
	candidates := directory.NewSampleStore().All()
	houston := names(Fallback(candidates, "Houston"))

	tests := []struct {
		name string
		chat ai.ChatModel
	}{
		{name: "no model", chat: nil},
		{name: "transport failure", chat: mock.Failing(&ai.TransportError{StatusCode: 503, Err: errors.New("down")})},
		{name: "not an array", chat: mock.Responding("The first three are close.")},
		{name: "floats", chat: mock.Responding("[0.5, 1.5]")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := NewFilter(tt.chat)
			require.NoError(t, err)
			defer filter.Release()

			for i := 0; i < 3; i++ {
				assert.Equal(t, houston, names(filter.Filter(context.Background(), candidates, []string{"Houston"})))
			}
		})
	}
}

func TestFilter_Chunks(t *testing.T) {
	candidates := directory.NewSampleStore().All()

	t.Run("each chunk judged separately", func(t *testing.T) {
		chat := mock.Responding("[0]")
		filter, err := NewFilter(chat, WithChunkSize(5), WithPoolSize(2))
		require.NoError(t, err)
		defer filter.Release()

		got := filter.Filter(context.Background(), candidates, []string{"anywhere"})
		assert.Equal(t, 3, chat.CallCount())
		assert.Equal(t, []string{candidates[0].Name, candidates[5].Name, candidates[10].Name}, names(got))
	})

	t.Run("one failed chunk falls back", func(t *testing.T) {
		chat := mock.NewMockChatModel().WithCompleteFunc(func(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
			if strings.Contains(req.Messages[0].Content, candidates[7].Name) {
				return &ai.ChatResponse{Content: "not sure"}, nil
			}
			return &ai.ChatResponse{Content: "[0, 1, 2, 3, 4]"}, nil
		})
		filter, err := NewFilter(chat, WithChunkSize(5))
		require.NoError(t, err)
		defer filter.Release()

		got := filter.Filter(context.Background(), candidates, []string{"Davis"})
		assert.Equal(t, names(Fallback(candidates, "Davis")), names(got))
	})
}

func TestFilter_NoPhrasesOrCandidates(t *testing.T) {
	candidates := directory.NewSampleStore().All()
	chat := mock.Responding("[0]")
	filter, err := NewFilter(chat)
	require.NoError(t, err)
	defer filter.Release()

	assert.Equal(t, candidates, filter.Filter(context.Background(), candidates, nil))
	assert.Empty(t, filter.Filter(context.Background(), nil, []string{"houston"}))
	assert.Equal(t, 0, chat.CallCount())
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	candidates := directory.NewSampleStore().All()
	before := make([]core.Institution, len(candidates))
	copy(before, candidates)

	filter, err := NewFilter(mock.Responding("[4, 1]"))
	require.NoError(t, err)
	defer filter.Release()

	filter.Filter(context.Background(), candidates, []string{"houston"})
	Fallback(candidates, "houston")
	assert.Equal(t, before, candidates)
}

func TestParseIndices(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{input: "[]", want: []int{}},
		{input: " [1, 2, 3] ", want: []int{1, 2, 3}},
		{input: "[1, 2,", want: []int{1, 2}},
		{input: "[1.5]", wantErr: true},
		{input: `["a"]`, wantErr: true},
		{input: "none of them", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIndices(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidJudgment)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
