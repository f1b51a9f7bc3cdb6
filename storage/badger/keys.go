package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/kehilla/core"
)

// Key prefixes for different data types
const (
	institutionRecordPrefix = "insrec"
	institutionZipPrefix    = "inszip"
)

// zipSeparator terminates the postal code inside index keys. It sorts below
// every printable byte so the index iterates in plain string order of codes.
const zipSeparator = 0x00

// makeInstitutionKey generates a key for an institution record by ID.
func makeInstitutionKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", institutionRecordPrefix, id))
}

// makeInstitutionPrefix returns the prefix shared by all institution record keys.
func makeInstitutionPrefix() []byte {
	return []byte(institutionRecordPrefix + ":")
}

// makeZipKey generates a composite key for the postal code index.
// Format: prefix:zip\x00ordinal
func makeZipKey(postalCode string, ordinal int) []byte {
	partial := makePartialZipKey(postalCode)
	buf := make([]byte, len(partial)+8)
	offset := copy(buf, partial)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(ordinal))
	return buf
}

// makePartialZipKey generates a partial key for a single postal code.
// Format: prefix:zip\x00
func makePartialZipKey(postalCode string) []byte {
	prefix := institutionZipPrefix + ":"
	buf := make([]byte, 0, len(prefix)+len(postalCode)+1)
	buf = append(buf, prefix...)
	buf = append(buf, postalCode...)
	return append(buf, zipSeparator)
}

// makeZipIndexPrefix returns the prefix shared by all postal code index keys.
func makeZipIndexPrefix() []byte {
	return []byte(institutionZipPrefix + ":")
}
