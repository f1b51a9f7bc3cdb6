package query

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const maxPhraseWords = 3

var (
	zipPattern       = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
	residencePattern = regexp.MustCompile(`\b(?:live|located|am)\s+(?:in|at)\s+(.+)`)
	upperPairPattern = regexp.MustCompile(`\b[A-Z]{2}\b`)
	wordPattern      = regexp.MustCompile(`[\p{L}\p{N}'-]+`)
	termSplit        = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// Analysis is the location and intent signal extracted from one query.
type Analysis struct {
	HasLocation bool
	// LocationPhrases are deduplicated and ordered: explicit phrases first,
	// then gazetteer hits, then capitalized state codes.
	LocationPhrases []string
	// SearchTerms are stopword-filtered tokens plus synonym expansions.
	SearchTerms []string
}

// PrimaryLocation returns the first location phrase, or "" when none was found.
func (a Analysis) PrimaryLocation() string {
	if len(a.LocationPhrases) == 0 {
		return ""
	}
	return a.LocationPhrases[0]
}

// Analyzer extracts location mentions and search terms from free-text queries.
// It is stateless and safe for concurrent use.
type Analyzer struct {
	gazetteer []gazetteerEntry
}

type gazetteerEntry struct {
	name    string
	pattern *regexp.Regexp // set for short names that need word boundaries
}

// NewAnalyzer creates an Analyzer with the built-in gazetteer.
func NewAnalyzer() *Analyzer {
	entries := make([]gazetteerEntry, 0, len(gazetteer))
	for _, name := range gazetteer {
		entry := gazetteerEntry{name: name}
		if len(name) <= 3 {
			entry.pattern = regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		}
		entries = append(entries, entry)
	}
	return &Analyzer{gazetteer: entries}
}

var defaultAnalyzer = NewAnalyzer()

// Analyze runs the default Analyzer.
func Analyze(q string) Analysis {
	return defaultAnalyzer.Analyze(q)
}

// Analyze extracts location phrases and search terms from q. It never fails;
// an empty query yields an empty Analysis.
func (a *Analyzer) Analyze(q string) Analysis {
	original := norm.NFKC.String(q)
	lower := strings.ToLower(original)

	phrases := newOrderedSet()
	for _, p := range prepositionPhrases(lower) {
		phrases.add(p)
	}
	for _, zip := range zipPattern.FindAllString(lower, -1) {
		phrases.add(zip)
	}
	for _, m := range residencePattern.FindAllStringSubmatch(lower, -1) {
		phrases.add(phraseAt(m[1]))
	}
	for _, entry := range a.gazetteer {
		if entry.pattern != nil {
			if entry.pattern.MatchString(lower) {
				phrases.add(entry.name)
			}
			continue
		}
		if strings.Contains(lower, entry.name) {
			phrases.add(entry.name)
		}
	}
	for _, loc := range upperPairPattern.FindAllStringIndex(original, -1) {
		code := original[loc[0]:loc[1]]
		if !stateCodes[code] {
			continue
		}
		if ambiguousStateCodes[code] && !followsPlace(strings.ToLower(original[:loc[0]]), a.gazetteer) {
			continue
		}
		phrases.add(strings.ToLower(code))
	}

	return Analysis{
		HasLocation:     phrases.size() > 0,
		LocationPhrases: phrases.items(),
		SearchTerms:     extractTerms(lower),
	}
}

// followsPlace reports whether the text before a state code ends in a comma
// or a gazetteer place name, as in "Portland, OR" or "Davis CA".
func followsPlace(before string, gazetteer []gazetteerEntry) bool {
	before = strings.TrimRightFunc(before, unicode.IsSpace)
	if strings.HasSuffix(before, ",") {
		return true
	}
	for _, entry := range gazetteer {
		if !strings.HasSuffix(before, entry.name) {
			continue
		}
		r, _ := utf8.DecodeLastRuneInString(before[:len(before)-len(entry.name)])
		if r == utf8.RuneError || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return true
		}
	}
	return false
}

// prepositionPhrases returns the place phrases following in/near/around/from.
func prepositionPhrases(lower string) []string {
	var out []string
	for _, loc := range wordPattern.FindAllStringIndex(lower, -1) {
		if !locationPrepositions[lower[loc[0]:loc[1]]] {
			continue
		}
		if p := phraseAt(lower[loc[1]:]); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// phraseAt reads a place phrase from the start of text: up to three words,
// ending at punctuation or a connector, with a leading "the" skipped.
// A self reference ("near me") yields nothing.
func phraseAt(text string) string {
	if i := strings.IndexAny(text, ",.;:!?()"); i >= 0 {
		text = text[:i]
	}
	words := wordPattern.FindAllString(text, -1)
	if len(words) > 0 && words[0] == "the" {
		words = words[1:]
	}
	if len(words) == 0 || selfReferences[words[0]] {
		return ""
	}

	var phrase []string
	for _, w := range words {
		if len(phrase) == maxPhraseWords || phraseBreaks[w] || locationPrepositions[w] || stopwords[w] {
			break
		}
		phrase = append(phrase, w)
	}
	return strings.Join(phrase, " ")
}

// extractTerms tokenizes on non-word characters, drops short tokens and
// stopwords, and appends synonym expansions after each surviving token.
func extractTerms(lower string) []string {
	terms := newOrderedSet()
	for _, tok := range termSplit.Split(lower, -1) {
		if len([]rune(tok)) <= 2 || stopwords[tok] {
			continue
		}
		terms.add(tok)
		for _, syn := range synonyms[tok] {
			terms.add(syn)
		}
	}
	return terms.items()
}

type orderedSet struct {
	seen  map[string]bool
	order []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.order = append(s.order, v)
}

func (s *orderedSet) size() int {
	return len(s.order)
}

func (s *orderedSet) items() []string {
	if s.order == nil {
		return []string{}
	}
	return s.order
}
