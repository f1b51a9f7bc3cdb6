package directory

import (
	"bytes"
	_ "embed"
)

//go:embed testdata/sample.json
var sampleDocument []byte

// SampleDocument returns a copy of the bundled sample document in storage form.
// It seeds demos and tests across packages.
func SampleDocument() []byte {
	return bytes.Clone(sampleDocument)
}

// NewSampleStore builds a Store from the bundled sample document.
// Panics if the embedded document is malformed.
func NewSampleStore() *Store {
	s, err := Load(bytes.NewReader(sampleDocument))
	if err != nil {
		panic(err)
	}
	return s
}
