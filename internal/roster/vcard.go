package roster

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-vcard"
)

// DecodeVCards reads every card in r. The display name comes from FN, or
// from N when FN is missing; the location is the locality of the preferred
// address. Cards without a usable name are skipped.
func DecodeVCards(r io.Reader) ([]Record, error) {
	dec := vcard.NewDecoder(r)

	var records []Record
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing vcard: %w", err)
		}

		name := cardName(card)
		if name == "" {
			slog.Warn("skipping vcard without a name")
			continue
		}

		rec := Record{Name: name}
		if addr := card.Address(); addr != nil {
			rec.Location = strings.TrimSpace(addr.Locality)
		}
		records = append(records, rec)
	}
	return records, nil
}

func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.PreferredValue(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		return strings.TrimSpace(strings.Join(strings.Fields(n.GivenName+" "+n.FamilyName), " "))
	}
	return ""
}
