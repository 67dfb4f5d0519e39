package desc

import (
	"regexp"
	"strings"

	"github.com/afschrift-dev/afschrift/internal/ordered"
)

// feeCell matches one 32-character fee cell: a product label padded up
// to a right-aligned, comma-decimal amount.
var feeCell = regexp.MustCompile(`^(.*\S) +(-?[0-9][0-9.,]*)$`)

// decodeFees handles the monthly card and package subscription fee
// layout: the head is the bank's name and the tail is a table of
// "label      amount" cells, two per 64-character line.
func decodeFees(d *Decoder, s string) *ordered.Map {
	head, tail := headTail(s)

	fields := ordered.New()
	fields.Set("type", TypeCardFee)
	fields.Set("subtype", head)
	for _, chunk := range chunks32(tail) {
		cell := strings.TrimRight(chunk, " ")
		if cell == "" {
			continue
		}
		m := feeCell.FindStringSubmatch(cell)
		if m == nil {
			return d.fallback(s)
		}
		fields.Set(d.collapse(m[1]), strings.ReplaceAll(m[2], ",", "."))
	}
	return fields
}
