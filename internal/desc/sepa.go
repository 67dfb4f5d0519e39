package desc

import (
	"strings"

	"github.com/afschrift-dev/afschrift/internal/ordered"
)

// decodeSEPA handles the plain-text SEPA layouts (direct debit
// collections, wire transfers, iDEAL payments). The tail is a run of
// 32-character columns; a column opening with a vocabulary label
// ("Naam: ...") starts a new field, any other column continues the
// previous value across the column boundary, so values are rebuilt by
// plain concatenation before trimming.
func decodeSEPA(d *Decoder, s string) *ordered.Map {
	head, tail := headTail(s)

	typ := TypeWireTransfer
	if strings.HasPrefix(head, "SEPA Incasso") {
		typ = TypeDirectDebit
	}

	type pair struct{ label, value string }
	var parts []pair
	var stray strings.Builder
	for _, chunk := range chunks32(tail) {
		if m := d.labels.FindStringSubmatch(chunk); m != nil {
			parts = append(parts, pair{m[1], m[2]})
		} else if len(parts) > 0 {
			parts[len(parts)-1].value += chunk
		} else {
			// Text before the first label. Not seen in real exports,
			// but the decoder is total and drops nothing.
			stray.WriteString(chunk)
		}
	}

	fields := ordered.New()
	fields.Set("type", typ)
	fields.Set("subtype", head)
	if lead := strings.TrimSpace(stray.String()); lead != "" {
		fields.Set("description", lead)
	}
	for _, p := range parts {
		fields.Set(p.label, strings.TrimSpace(p.value))
	}
	return fields
}
