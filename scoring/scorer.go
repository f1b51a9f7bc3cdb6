package scoring

import (
	"slices"
	"strings"

	"github.com/poiesic/kehilla/core"
)

// Mode selects the rule set and result cap.
type Mode int

const (
	// ModeOpen is open-ended keyword search over the whole store.
	ModeOpen Mode = iota + 1
	// ModeProximity scores candidates already judged to be nearby.
	ModeProximity
	// ModeGeneral uses the open rules with a larger cap.
	ModeGeneral
)

// Limit returns the default result cap for the mode.
func (m Mode) Limit() int {
	switch m {
	case ModeProximity:
		return 6
	case ModeGeneral:
		return 20
	default:
		return 12
	}
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeOpen:
		return "open"
	case ModeProximity:
		return "proximity"
	case ModeGeneral:
		return "general"
	default:
		return "unknown"
	}
}

// Candidate pairs an institution with its relevance score.
type Candidate struct {
	Institution core.Institution
	Score       int
}

// Score computes the relevance of inst for a query and its search terms.
// It is a pure function of its inputs.
func Score(mode Mode, query string, terms []string, inst *core.Institution) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if mode == ModeProximity {
		return scoreProximity(q, terms, inst)
	}
	return scoreOpen(q, terms, inst)
}

// scoreOpen applies the open-search rules. Each field rule fires at most once,
// when the field contains the whole query or any search term.
func scoreOpen(q string, terms []string, inst *core.Institution) int {
	needles := make([]string, 0, len(terms)+1)
	if q != "" {
		needles = append(needles, q)
	}
	needles = append(needles, terms...)
	if len(needles) == 0 {
		return 0
	}

	score := 0
	if containsAny(strings.ToLower(inst.Name), needles) {
		score += pointsNameMatch
	}
	if inst.Denomination != "" && containsAny(strings.ToLower(inst.Denomination), needles) {
		score += pointsDenominationMatch
	}
	if containsAny(strings.ToLower(inst.FullAddress), needles) {
		score += pointsAddressMatch
	}
	for name, flag := range inst.Programs {
		if containsAny(strings.ToLower(name), needles) || containsAny(strings.ToLower(flag), needles) {
			score += pointsProgramMatch
		}
	}

	content := serialize(inst)
	for _, category := range categoryKeywords {
		if !strings.Contains(q, category.trigger) {
			continue
		}
		for _, keyword := range category.keywords {
			if strings.Contains(content, keyword) {
				score += pointsCategoryKeyword
			}
		}
	}

	score += nearMeBoost(q, inst)
	return score
}

// scoreProximity applies the post-proximity rules on top of the base score.
func scoreProximity(q string, terms []string, inst *core.Institution) int {
	score := proximityBase

	name := strings.ToLower(inst.Name)
	denomination := strings.ToLower(inst.Denomination)
	content := serialize(inst)
	for _, term := range terms {
		if strings.Contains(name, term) {
			score += pointsTermInName
		}
		if denomination != "" && strings.Contains(denomination, term) {
			score += pointsTermInDenomination
		}
		if strings.Contains(content, term) {
			score += pointsTermInContent
		}
	}

	youth := inst.Programs.Has(core.ProgramYouthGroups)
	if youth && containsAny(q, teenTerms) {
		score += pointsTeenYouthGroups
	}
	if containsAny(q, childTerms) {
		if youth {
			score += pointsChildYouthGroups
		}
		if inst.Programs.Has(core.ProgramHebrewSchool) {
			score += pointsChildHebrewSchool
		}
	}
	if youth && containsAny(q, regularTerms) {
		score += pointsRegularYouthGroups
	}

	score += nearMeBoost(q, inst)
	return score
}

func nearMeBoost(q string, inst *core.Institution) int {
	if HasNearMeIntent(q) && len(inst.Programs) > nearMeMinPrograms {
		return pointsNearMe
	}
	return 0
}

// serialize renders a record under its storage labels as one lowercase
// string for "anywhere in the record" matching. The labels are part of the
// text, so "programs" and "education" hit every record. Programs are written
// in sorted order.
func serialize(inst *core.Institution) string {
	var b strings.Builder
	fields := []struct{ label, value string }{
		{"synagogue name", inst.Name},
		{"denomination", inst.Denomination},
		{"full address", inst.FullAddress},
		{"phone number", inst.Phone},
		{"website", inst.Website},
		{"description", inst.Description},
	}
	for _, f := range fields {
		b.WriteString(f.label)
		b.WriteByte(':')
		b.WriteString(f.value)
		b.WriteByte('\n')
	}
	b.WriteString("educational programs:\n")
	for _, name := range inst.Programs.Names() {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(inst.Programs[name])
		b.WriteByte('\n')
	}
	return strings.ToLower(b.String())
}

// IsCampusHillel reports whether inst is a college or university Hillel.
func IsCampusHillel(inst *core.Institution) bool {
	name := strings.ToLower(inst.Name)
	return strings.Contains(name, "hillel") &&
		(strings.Contains(name, "university") || strings.Contains(name, "college"))
}

// Rank scores candidates and returns them in descending score order, capped at mode.Limit().
func Rank(mode Mode, query string, terms []string, candidates []core.Institution) []Candidate {
	return RankLimit(mode, query, terms, candidates, mode.Limit())
}

// RankLimit is Rank with an explicit cap. A limit of zero or less means no cap.
//
// Campus Hillels are dropped before scoring when the query has youth intent.
// Zero scores are dropped outside proximity mode. Ties keep candidate order.
func RankLimit(mode Mode, query string, terms []string, candidates []core.Institution, limit int) []Candidate {
	excludeCampus := HasYouthIntent(query)

	ranked := make([]Candidate, 0, len(candidates))
	for i := range candidates {
		inst := &candidates[i]
		if excludeCampus && IsCampusHillel(inst) {
			continue
		}
		score := Score(mode, query, terms, inst)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, Candidate{Institution: *inst, Score: score})
	}

	slices.SortStableFunc(ranked, func(a, b Candidate) int {
		return b.Score - a.Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Institutions unwraps ranked candidates.
func Institutions(ranked []Candidate) []core.Institution {
	out := make([]core.Institution, len(ranked))
	for i, c := range ranked {
		out[i] = c.Institution
	}
	return out
}
