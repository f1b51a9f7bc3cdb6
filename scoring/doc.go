// Package scoring ranks institutions against a query with additive heuristic rules.
//
// Two rule sets exist. Open search starts from zero and rewards matches of the
// query or its terms in the name, denomination, address and programs, plus
// category keyword hits anywhere in the record. Proximity scoring starts from
// a base of 20 for candidates already known to be nearby and rewards each
// search term found in the name, denomination or record, with boosts for
// age-specific intent. Ranking is a stable descending sort.
package scoring
