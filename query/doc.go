// Package query extracts location and intent signals from free-text directory queries.
//
// Analysis never fails. Location phrases come from four sources, in order:
// words following in/near/around/from (or "live/located/am in"), five-digit
// postal codes, a fixed gazetteer of place names, and two-letter state codes
// written in capitals. Search terms are lowercased tokens with short tokens
// and stopwords removed, followed by their synonym expansions.
package query
