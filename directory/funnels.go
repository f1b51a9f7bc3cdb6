package directory

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/kehilla/core"
)

const (
	// NearbyZipRadius is the largest numeric postal code distance considered nearby.
	NearbyZipRadius = 50
	// FunnelLimit caps zip, category and affiliation results.
	FunnelLimit = 20
	// RecommendationLimit caps Recommend.
	RecommendationLimit = 6

	recommendPerPreference = 2
)

// Category names accepted by ByCategory.
const (
	CategorySynagogue = "synagogue"
	CategorySchool    = "school"
	CategoryYouth     = "youth"
	CategoryEducation = "education"
	CategoryHillel    = "hillel"
	CategoryCommunity = "community"
)

// Categories lists the category names in display order.
var Categories = []string{
	CategorySynagogue,
	CategorySchool,
	CategoryYouth,
	CategoryEducation,
	CategoryHillel,
	CategoryCommunity,
}

// Recommendation preference names.
const (
	PreferenceFamily    = "family"
	PreferenceYouth     = "youth"
	PreferenceEducation = "education"
)

// DefaultPreferences is used by Recommend when no preferences are supplied.
var DefaultPreferences = []string{PreferenceFamily, PreferenceEducation, PreferenceYouth}

// ZipMatch is an institution found by postal code with its numeric distance from the searched code.
type ZipMatch struct {
	core.Institution
	Distance int
}

// NearbyZip returns institutions in the given postal code followed by those in
// codes within NearbyZipRadius of it, ordered by numeric distance and capped at FunnelLimit.
// A non-numeric code only matches exactly.
func (s *Store) NearbyZip(zip string) []ZipMatch {
	zip = strings.TrimSpace(zip)
	results := make([]ZipMatch, 0, FunnelLimit)
	for _, inst := range s.byZip[zip] {
		results = append(results, ZipMatch{Institution: inst})
	}

	target, err := strconv.Atoi(zip)
	if err == nil {
		for _, other := range s.zips {
			if other == zip {
				continue
			}
			n, err := strconv.Atoi(other)
			if err != nil || n == 0 {
				continue
			}
			distance := abs(n - target)
			if distance > NearbyZipRadius {
				continue
			}
			for _, inst := range s.byZip[other] {
				results = append(results, ZipMatch{Institution: inst, Distance: distance})
			}
		}
	}

	slices.SortStableFunc(results, func(a, b ZipMatch) int {
		return a.Distance - b.Distance
	})
	return limit(results, FunnelLimit)
}

// ByCategory filters the store by one of the fixed categories, capped at FunnelLimit.
func (s *Store) ByCategory(category string) ([]core.Institution, error) {
	var match func(inst *core.Institution) bool
	switch strings.ToLower(strings.TrimSpace(category)) {
	case CategorySynagogue:
		match = func(inst *core.Institution) bool { return !nameHasHillel(inst) }
	case CategorySchool:
		match = func(inst *core.Institution) bool { return inst.Programs.Has(core.ProgramHebrewSchool) }
	case CategoryYouth:
		// Youth programs that are not primarily a Hebrew school.
		match = func(inst *core.Institution) bool {
			return inst.Programs.Has(core.ProgramYouthGroups) && !inst.Programs.Has(core.ProgramHebrewSchool)
		}
	case CategoryEducation:
		match = func(inst *core.Institution) bool { return inst.Programs.Has(core.ProgramAdultEducation) }
	case CategoryHillel:
		match = nameHasHillel
	case CategoryCommunity:
		match = func(inst *core.Institution) bool { return inst.Programs.Has(core.ProgramFamilyLearning) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return s.filter(match, FunnelLimit), nil
}

// ByAffiliation returns institutions whose denomination contains affiliation, case-insensitively.
func (s *Store) ByAffiliation(affiliation string) []core.Institution {
	needle := strings.ToLower(strings.TrimSpace(affiliation))
	if needle == "" {
		return []core.Institution{}
	}
	return s.filter(func(inst *core.Institution) bool {
		return strings.Contains(strings.ToLower(inst.Denomination), needle)
	}, FunnelLimit)
}

// Recommend picks up to RecommendationLimit institutions for a set of preferences.
// Each of family, youth and education contributes its first two matches. When no
// preference yields anything, one institution each of Reform, Conservative,
// Orthodox and Chabad is offered instead.
func (s *Store) Recommend(preferences []string) []core.Institution {
	if len(preferences) == 0 {
		preferences = DefaultPreferences
	}

	var picks []core.Institution
	for _, rule := range []struct {
		preference string
		program    string
	}{
		{PreferenceFamily, core.ProgramFamilyLearning},
		{PreferenceYouth, core.ProgramYouthGroups},
		{PreferenceEducation, core.ProgramAdultEducation},
	} {
		if !slices.Contains(preferences, rule.preference) {
			continue
		}
		program := rule.program
		picks = append(picks, s.filter(func(inst *core.Institution) bool {
			return inst.Programs.Has(program)
		}, recommendPerPreference)...)
	}

	if len(picks) == 0 {
		for _, denomination := range []string{"reform", "conservative", "orthodox", "chabad"} {
			found := s.filter(func(inst *core.Institution) bool {
				return strings.Contains(strings.ToLower(inst.Denomination), denomination)
			}, 1)
			picks = append(picks, found...)
		}
	}

	seen := make(map[core.ID]bool, len(picks))
	unique := make([]core.Institution, 0, len(picks))
	for _, inst := range picks {
		if seen[inst.ID] {
			continue
		}
		seen[inst.ID] = true
		unique = append(unique, inst)
	}
	return limit(unique, RecommendationLimit)
}

func (s *Store) filter(match func(inst *core.Institution) bool, max int) []core.Institution {
	out := []core.Institution{}
	for i := range s.all {
		if len(out) == max {
			break
		}
		if match(&s.all[i]) {
			out = append(out, s.all[i])
		}
	}
	return out
}

func nameHasHillel(inst *core.Institution) bool {
	return strings.Contains(strings.ToLower(inst.Name), "hillel")
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
