package query

// gazetteer lists the place names recognized anywhere in a query.
// Entries of three characters or fewer are matched on word boundaries.
var gazetteer = []string{
	"houston", "bellaire", "sugar land", "dallas", "austin", "san antonio", "texas", "tx",
	"new york", "nyc", "manhattan", "brooklyn", "queens", "bronx", "staten island", "ny",
	"los angeles", "la", "encino", "san francisco", "oakland", "berkeley", "davis",
	"sacramento", "california", "ca",
	"chicago", "boston", "philadelphia", "miami", "atlanta", "seattle", "denver",
	"phoenix", "baltimore", "cleveland", "detroit", "omaha", "trenton", "new jersey", "nj",
}

// stateCodes are the two-letter postal abbreviations recognized when written in capitals.
var stateCodes = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true, "CT": true,
	"DE": true, "DC": true, "FL": true, "GA": true, "HI": true, "ID": true, "IL": true,
	"IN": true, "IA": true, "KS": true, "KY": true, "LA": true, "ME": true, "MD": true,
	"MA": true, "MI": true, "MN": true, "MS": true, "MO": true, "MT": true, "NE": true,
	"NV": true, "NH": true, "NJ": true, "NM": true, "NY": true, "NC": true, "ND": true,
	"OH": true, "OK": true, "OR": true, "PA": true, "RI": true, "SC": true, "SD": true,
	"TN": true, "TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true,
}

// ambiguousStateCodes are also common English words. They count as states
// only after a comma or a known place name.
var ambiguousStateCodes = map[string]bool{
	"ME": true, "OR": true, "IN": true, "OK": true, "HI": true,
}

// locationPrepositions introduce a place phrase.
var locationPrepositions = map[string]bool{
	"in": true, "near": true, "around": true, "from": true,
}

// phraseBreaks end a place phrase.
var phraseBreaks = map[string]bool{
	"and": true, "or": true, "for": true, "with": true, "that": true, "which": true,
	"who": true, "where": true, "area": true, "to": true, "offering": true, "has": true,
	"have": true, "having": true, "is": true, "are": true, "on": true, "at": true,
}

// selfReferences after a preposition mean "where I am", not a place name.
var selfReferences = map[string]bool{
	"me": true, "my": true, "here": true, "us": true, "our": true,
}

// stopwords are dropped from search terms.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "near": true, "around": true,
	"from": true, "what": true, "where": true, "which": true, "who": true, "find": true,
	"looking": true, "look": true, "want": true, "need": true, "are": true, "any": true,
	"some": true, "that": true, "this": true, "there": true, "have": true, "can": true,
	"you": true, "please": true, "show": true, "get": true, "about": true, "all": true,
	"live": true, "located": true,
}

// synonyms expands a term with related terms. Expansion is additive.
var synonyms = map[string][]string{
	"orthodox":     {"modern orthodox", "traditional"},
	"reform":       {"progressive", "liberal"},
	"conservative": {"masorti"},
	"chabad":       {"lubavitch"},
	"youth":        {"teen", "teenagers", "children"},
	"teen":         {"youth", "teenagers"},
	"teens":        {"teen", "youth", "teenagers"},
	"teenagers":    {"teen", "youth"},
	"kids":         {"children", "youth"},
	"children":     {"kids", "youth"},
	"temple":       {"synagogue", "congregation"},
	"synagogue":    {"temple", "congregation", "shul"},
	"shul":         {"synagogue"},
	"school":       {"hebrew school", "education"},
	"hebrew":       {"hebrew school"},
	"mitzvah":      {"bar mitzvah", "bat mitzvah"},
	"college":      {"hillel", "university"},
	"university":   {"hillel", "college"},
	"nyc":          {"new york"},
	"jcc":          {"jewish community center"},
}
