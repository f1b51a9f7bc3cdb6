package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Institution IDs are content-based so that re-importing the same document is idempotent.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Source is the provenance tag attached to a result at search time.
type Source int

const (
	// SourceLocalDatabase marks records drawn from the Institution Store.
	SourceLocalDatabase Source = iota + 1
	// SourceExternalDiscovery marks records synthesized by the external discovery service.
	SourceExternalDiscovery
)

// String returns the wire name of the source.
func (s Source) String() string {
	switch s {
	case SourceLocalDatabase:
		return "local"
	case SourceExternalDiscovery:
		return "external"
	default:
		return "unknown"
	}
}

// MarshalText encodes the source by its wire name.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Placeholders substituted into externally discovered records with missing fields.
const (
	UnknownInstitution       = "Unknown Institution"
	AddressNotProvided       = "Address not provided"
	DenominationNotSpecified = "Not specified"
)

// Institution is one physical or organizational entity: a synagogue, school,
// Hillel, or community center.
type Institution struct {
	ID           ID
	Name         string
	Denomination string
	FullAddress  string
	Phone        string
	Website      string
	Programs     Programs
	PostalCode   string // key the record is filed under in the store
	Ordinal      int    // position within its postal code in the source document
	Description  string // only populated for externally discovered records

	// Source is set per search and never persisted.
	Source Source
	// LowConfidence marks records recovered by the textual response parser.
	LowConfidence bool
}

// ContentKey returns the string used to derive the institution ID.
func (i *Institution) ContentKey() string {
	return i.Name + "|" + i.FullAddress
}

// CityState returns the portion of the address after the first comma.
// The street-level part is excluded so that street names like "California St"
// never count as place names. Returns the whole address when there is no comma.
func (i *Institution) CityState() string {
	_, after, found := strings.Cut(i.FullAddress, ",")
	if !found {
		return strings.TrimSpace(i.FullAddress)
	}
	return strings.TrimSpace(after)
}

// WithSource returns a copy of the institution carrying the given source tag.
// The program map is shared; records are treated as read-only.
func (i Institution) WithSource(s Source) Institution {
	i.Source = s
	return i
}

// TagAll returns copies of the given institutions tagged with source s.
func TagAll(institutions []Institution, s Source) []Institution {
	out := make([]Institution, len(institutions))
	for idx, inst := range institutions {
		out[idx] = inst.WithSource(s)
	}
	return out
}
