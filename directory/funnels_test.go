package directory

import (
	"testing"

	"github.com/poiesic/kehilla/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(list []core.Institution) []string {
	out := make([]string, len(list))
	for i, inst := range list {
		out[i] = inst.Name
	}
	return out
}

func TestNearbyZip(t *testing.T) {
	store := NewSampleStore()

	t.Run("exact match first then by distance", func(t *testing.T) {
		matches := store.NearbyZip("95616")
		require.Len(t, matches, 3)
		assert.Equal(t, "Congregation Bet Haverim", matches[0].Name)
		assert.Equal(t, 0, matches[0].Distance)
		assert.Equal(t, "UC Davis Hillel", matches[1].Name)
		assert.Equal(t, "Chabad of Davis", matches[2].Name)
		assert.Equal(t, 2, matches[2].Distance)
	})

	t.Run("nearby only", func(t *testing.T) {
		matches := store.NearbyZip("95620")
		require.Len(t, matches, 3)
		assert.Equal(t, "Chabad of Davis", matches[0].Name)
		assert.Equal(t, 2, matches[0].Distance)
		assert.Equal(t, 4, matches[1].Distance)
	})

	t.Run("outside radius", func(t *testing.T) {
		assert.Empty(t, store.NearbyZip("50000"))
	})

	t.Run("non numeric matches nothing", func(t *testing.T) {
		assert.Empty(t, store.NearbyZip("davis"))
	})
}

func TestNearbyZip_Cap(t *testing.T) {
	list := make([]core.Institution, 30)
	for i := range list {
		list[i] = core.Institution{Name: "Shul", FullAddress: string(rune('a'+i%26)) + " St, Town, ST"}
	}
	store := NewStore(map[string][]core.Institution{"12345": list})
	assert.Len(t, store.NearbyZip("12345"), FunnelLimit)
}

func TestByCategory(t *testing.T) {
	store := NewSampleStore()

	tests := []struct {
		category string
		want     []string
	}{
		{
			category: CategoryHillel,
			want:     []string{"Rice University Hillel", "UC Davis Hillel"},
		},
		{
			category: CategoryYouth,
			want:     []string{"Kingsway Jewish Center", "Rice University Hillel", "Chabad of Bellaire", "Chabad of Davis"},
		},
		{
			category: CategoryCommunity,
			want:     []string{"Temple Emanu-El", "Congregation Beth Israel", "Congregation Or Ami", "Congregation Bet Haverim"},
		},
		{
			category: "School",
			want: []string{
				"Temple Emanu-El", "Beth El Synagogue", "Congregation Beth Israel", "Congregation Beth Yeshurun",
				"Sinai Temple", "Congregation Bet Haverim", "Congregation B'nai Israel",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got, err := store.ByCategory(tt.category)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}

	t.Run("synagogue excludes hillels", func(t *testing.T) {
		got, err := store.ByCategory(CategorySynagogue)
		require.NoError(t, err)
		assert.Len(t, got, 13)
		assert.NotContains(t, names(got), "UC Davis Hillel")
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := store.ByCategory("bakery")
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})
}

func TestByAffiliation(t *testing.T) {
	store := NewSampleStore()

	assert.Equal(t, []string{"Kingsway Jewish Center"}, names(store.ByAffiliation("orthodox")))
	assert.Equal(t, []string{"Chabad of Bellaire", "Chabad of Davis"}, names(store.ByAffiliation("Chabad")))
	assert.Empty(t, store.ByAffiliation("  "))
	assert.Empty(t, store.ByAffiliation("karaite"))
}

func TestRecommend(t *testing.T) {
	store := NewSampleStore()

	t.Run("default preferences", func(t *testing.T) {
		got := store.Recommend(nil)
		// family: Emanu-El, Beth Israel; youth: Emanu-El (dup), Kingsway; education: Emanu-El (dup), Kingsway (dup)
		assert.Equal(t, []string{"Temple Emanu-El", "Congregation Beth Israel", "Kingsway Jewish Center"}, names(got))
	})

	t.Run("single preference", func(t *testing.T) {
		got := store.Recommend([]string{PreferenceEducation})
		assert.Equal(t, []string{"Temple Emanu-El", "Kingsway Jewish Center"}, names(got))
	})

	t.Run("unrecognized preferences fall back to denominations", func(t *testing.T) {
		got := store.Recommend([]string{"music"})
		assert.Equal(t, []string{"Temple Emanu-El", "Adath Israel Congregation", "Kingsway Jewish Center", "Chabad of Bellaire"}, names(got))
	})

	t.Run("capped", func(t *testing.T) {
		list := make([]core.Institution, 0, 10)
		for i := 0; i < 10; i++ {
			list = append(list, core.Institution{
				Name:        "Shul " + string(rune('A'+i)),
				FullAddress: "1 Main St, Town, ST",
				Programs:    core.Programs{core.ProgramFamilyLearning: "Yes", core.ProgramYouthGroups: "Yes", core.ProgramAdultEducation: "Yes"},
			})
		}
		s := NewStore(map[string][]core.Institution{"12345": list})
		got := s.Recommend([]string{PreferenceFamily, PreferenceYouth, PreferenceEducation})
		// Each preference yields the same first two records; duplicates collapse.
		assert.Equal(t, []string{"Shul A", "Shul B"}, names(got))
		assert.LessOrEqual(t, len(got), RecommendationLimit)
	})
}
