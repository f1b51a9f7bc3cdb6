package scoring

import "strings"

// Open-search points.
const (
	pointsNameMatch         = 10
	pointsDenominationMatch = 8
	pointsAddressMatch      = 6
	pointsProgramMatch      = 5
	pointsCategoryKeyword   = 3
	pointsNearMe            = 4
)

// Post-proximity points.
const (
	proximityBase            = 20
	pointsTermInName         = 15
	pointsTermInDenomination = 12
	pointsTermInContent      = 3
	pointsTeenYouthGroups    = 15
	pointsChildYouthGroups   = 12
	pointsChildHebrewSchool  = 12
	pointsRegularYouthGroups = 8
	nearMeMinPrograms        = 5
)

// categoryKeywords maps a query keyword to the words looked for anywhere in a record.
// Slice order is fixed so scoring stays deterministic.
var categoryKeywords = []struct {
	trigger  string
	keywords []string
}{
	{"orthodox", []string{"orthodox"}},
	{"reform", []string{"reform"}},
	{"conservative", []string{"conservative"}},
	{"chabad", []string{"chabad"}},
	{"youth", []string{"youth", "teen", "children"}},
	{"school", []string{"school", "education", "hebrew"}},
	{"family", []string{"family", "intergenerational"}},
	{"online", []string{"online", "virtual", "zoom"}},
	{"hillel", []string{"hillel", "university", "college"}},
	{"programs", []string{"programs", "activities", "classes"}},
}

var nearMeTerms = []string{"near me", "nearby", "close", "local"}

var (
	teenTerms    = []string{"teen", "youth", "teenager"}
	childTerms   = []string{"kid", "child", "children"}
	regularTerms = []string{"weekly", "regular", "ongoing"}
)

// youthIntentTerms signal a query about programming for children or teens.
var youthIntentTerms = []string{
	"youth", "teen", "kid", "child", "son", "daughter",
	"bar mitzvah", "bat mitzvah", "b'nai mitzvah", "bnai mitzvah", "mitzvah",
	"hebrew school", "religious school", "sunday school",
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// HasNearMeIntent reports whether the query asks for something close by
// without naming a place.
func HasNearMeIntent(query string) bool {
	return containsAny(strings.ToLower(query), nearMeTerms)
}

// HasYouthIntent reports whether the query is about youth, Bar/Bat Mitzvah
// or Hebrew school programming.
func HasYouthIntent(query string) bool {
	lower := strings.ToLower(query)
	for _, term := range youthIntentTerms {
		if term == "son" {
			// "son" only as a word; "person" and "lesson" are not about children.
			if containsWord(lower, term) {
				return true
			}
			continue
		}
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func containsWord(s, word string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r == '\'')
	}) {
		if f == word {
			return true
		}
	}
	return false
}
