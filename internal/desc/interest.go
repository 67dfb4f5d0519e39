package desc

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/afschrift-dev/afschrift/internal/ordered"
)

// interestRange matches the accrual period narrative of the savings
// interest layout.
var interestRange = regexp.MustCompile(`^over the period from (\d{2})-(\d{2})-(\d{4}) to (\d{2})-(\d{2})-(\d{4}) ?(.*)$`)

// decodeInterest handles both interest layouts: the current
// "Basic interest" form with an accrual period, and the legacy
// "CREDIT INTEREST" form that carries no further text.
func decodeInterest(d *Decoder, s string) *ordered.Map {
	head, tail := headTail(s)

	fields := ordered.New()
	fields.Set("type", TypeInterest)
	fields.Set("subtype", head)

	note := d.collapse(strings.TrimSpace(tail))
	if m := interestRange.FindStringSubmatch(note); m != nil {
		fields.Set("from", fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1]))
		fields.Set("to", fmt.Sprintf("%s-%s-%s", m[6], m[5], m[4]))
		note = m[7]
	}
	fields.Set("note", note)
	return fields
}

// decodeInsurance handles the retired insurance premium layout. It was
// only ever a short narrative, so the whole text is kept as one field.
func decodeInsurance(d *Decoder, s string) *ordered.Map {
	head, tail := headTail(s)

	fields := ordered.New()
	fields.Set("type", TypeLegacyInsurance)
	fields.Set("description", d.collapse(strings.TrimSpace(head+" "+tail)))
	return fields
}
