package directory

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/kehilla/core"
)

// documentRecord is one institution in storage form.
type documentRecord struct {
	Name         string         `json:"Synagogue Name"`
	Denomination string         `json:"Denomination"`
	FullAddress  string         `json:"Full Address"`
	Phone        string         `json:"Phone Number"`
	Website      string         `json:"Website"`
	Programs     map[string]any `json:"Educational Programs"`
}

// LoadDocument decodes the storage-form document: an object mapping postal
// codes to ordered arrays of institutions. PostalCode and Ordinal are filled
// from the document position; IDs are content-based.
func LoadDocument(r io.Reader) (map[string][]core.Institution, error) {
	var raw map[string][]documentRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	byZip := make(map[string][]core.Institution, len(raw))
	for zip, records := range raw {
		zip = strings.TrimSpace(zip)
		list := make([]core.Institution, 0, len(records))
		for ordinal, rec := range records {
			inst := core.Institution{
				Name:         strings.TrimSpace(rec.Name),
				Denomination: strings.TrimSpace(rec.Denomination),
				FullAddress:  strings.TrimSpace(rec.FullAddress),
				Phone:        strings.TrimSpace(rec.Phone),
				Website:      strings.TrimSpace(rec.Website),
				Programs:     programsFromDocument(rec.Programs),
				PostalCode:   zip,
				Ordinal:      ordinal,
			}
			inst.ID = core.IDFromContent(inst.ContentKey())
			list = append(list, inst)
		}
		byZip[zip] = append(byZip[zip], list...)
	}
	return byZip, nil
}

// programsFromDocument keeps program flags as the document spells them.
// Booleans are rendered as Yes/No; anything else non-string is Unknown.
func programsFromDocument(raw map[string]any) core.Programs {
	programs := make(core.Programs, len(raw))
	for name, v := range raw {
		switch val := v.(type) {
		case string:
			programs[name] = strings.TrimSpace(val)
		case bool:
			if val {
				programs[name] = core.FlagYes
			} else {
				programs[name] = core.FlagNo
			}
		default:
			programs[name] = core.FlagUnknown
		}
	}
	return programs
}

// EncodeDocument writes institutions back out in storage form.
func EncodeDocument(w io.Writer, byZip map[string][]core.Institution) error {
	raw := make(map[string][]documentRecord, len(byZip))
	for zip, list := range byZip {
		records := make([]documentRecord, 0, len(list))
		for _, inst := range list {
			programs := make(map[string]any, len(inst.Programs))
			for name, flag := range inst.Programs {
				programs[name] = flag
			}
			records = append(records, documentRecord{
				Name:         inst.Name,
				Denomination: inst.Denomination,
				FullAddress:  inst.FullAddress,
				Phone:        inst.Phone,
				Website:      inst.Website,
				Programs:     programs,
			})
		}
		raw[zip] = records
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}
