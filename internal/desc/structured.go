package desc

import (
	"strings"

	"github.com/afschrift-dev/afschrift/internal/ordered"
)

// wireTags is the tag set of the slash-delimited SEPA record layout.
// A '/' only delimits a new field when the token after it is one of
// these; any other '/' belongs to the preceding value.
var wireTags = map[string]bool{
	"TRTP": true, // transaction type
	"CSID": true, // creditor scheme id
	"NAME": true,
	"REMI": true, // remittance info
	"MARF": true, // mandate reference
	"EREF": true, // end-to-end reference
	"IBAN": true,
	"BIC":  true,
	"ORDP": true, // ordering party
	"ID":   true,
}

// decodeStructured decodes the slash-delimited structured-transfer
// layout: /TAG/value/TAG/value... It reports ok=false when the input
// does not open with '/' plus a known tag, so dispatch can move on.
//
// Every tag is kept verbatim under its own key, in source order; the
// decoder never drops information present in the input. Values are
// only right-trimmed, so rejoining "/"+tag+"/"+value in order
// reconstructs the trimmed original.
func decodeStructured(s string) (*ordered.Map, bool) {
	if !strings.HasPrefix(s, "/") {
		return nil, false
	}
	segs := strings.Split(s[1:], "/")
	if len(segs) == 0 || !wireTags[segs[0]] {
		return nil, false
	}

	// Alternating tag/value sequence. A segment in tag position that
	// is not a known tag is a value continuation with an embedded '/'.
	var parts []string
	for _, p := range segs {
		if len(parts)%2 == 0 && !wireTags[p] {
			parts[len(parts)-1] += "/" + p
			continue
		}
		parts = append(parts, p)
	}

	fields := ordered.New()
	fields.Set("type", TypeStructuredTransfer)
	for i := 0; i < len(parts); i += 2 {
		value := ""
		if i+1 < len(parts) {
			value = strings.TrimRight(parts[i+1], " ")
		}
		fields.Set(parts[i], value)
	}
	return fields, true
}
