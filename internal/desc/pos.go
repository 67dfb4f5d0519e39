package desc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/afschrift-dev/afschrift/internal/ordered"
)

var (
	// Legacy head: "BEA   NR:AB012345 31.12.21/12.34".
	legacyPOSHead = regexp.MustCompile(`^BEA +NR:([^ ]+) +([0-9./:-]+)$`)
	// Modern reference column: "NR:0ABC0D, 01.02.23/14:15".
	modernPOSRef = regexp.MustCompile(`^NR:([^, ]+)[, ]+([0-9./:-]+) *$`)
	// Timestamp pieces; the bank switched the time separator between
	// '.' and ':' over the years, so both (and '-') are accepted.
	stampSep = regexp.MustCompile(`[-:./]`)
)

// reversalNote marks a refunded point-of-sale transaction.
const reversalNote = "TERUGBOEKING"

// parseStamp converts a "DD.MM.YY/HH.MM" timestamp into an ISO date
// and an HH:MM time of day. The date encoded here is the terminal's
// clock and may differ from the statement's transaction date
// (cross-midnight settlement); it is reported, never reconciled.
func parseStamp(s string) (date, tod string, ok bool) {
	parts := stampSep.Split(strings.TrimSpace(s), -1)
	if len(parts) != 5 {
		return "", "", false
	}
	n := make([]int, 5)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return "", "", false
		}
		n[i] = v
	}
	dd, mm, yy, hh, mi := n[0], n[1], n[2], n[3], n[4]
	if mm < 1 || mm > 12 || dd < 1 || dd > 31 || hh > 23 || mi > 59 {
		return "", "", false
	}
	return fmt.Sprintf("20%02d-%02d-%02d", yy, mm, dd),
		fmt.Sprintf("%02d:%02d", hh, mi), true
}

// splitMerchant splits a "merchant,PASnnn" column into the merchant
// name and the card identifier. Merchant names keep their internal
// spacing verbatim; some contain a genuine double space.
func splitMerchant(s string) (merchant, card string) {
	idx := strings.Index(s, ",PAS")
	if idx < 0 {
		return strings.TrimRight(s, " "), ""
	}
	return strings.TrimRight(s[:idx], " "), "PAS" + strings.TrimRight(s[idx+4:], " ")
}

// decodePOSLegacy handles the old in-person payment layout, where the
// reference and timestamp share the head column:
//
//	BEA   NR:A1B23C   30.12.21/09.15 | merchant,PASnnn | location | note
func decodePOSLegacy(d *Decoder, s string) *ordered.Map {
	head, tail := headTail(s)
	m := legacyPOSHead.FindStringSubmatch(head)
	if m == nil {
		return d.fallback(s)
	}
	date, tod, ok := parseStamp(m[2])
	if !ok {
		return d.fallback(s)
	}
	merchant, card := splitMerchant(col(tail, 0, colWidth))
	location := col(tail, colWidth, 2*colWidth)
	note := col(tail, 2*colWidth, -1)

	typ := TypePOSDebit
	if strings.Contains(note, reversalNote) {
		typ = TypePOSCredit
	}

	fields := ordered.New()
	fields.Set("type", typ)
	fields.Set("reference", m[1])
	fields.Set("date", date)
	fields.Set("time", tod)
	fields.Set("merchant", merchant)
	fields.Set("card", card)
	fields.Set("location", location)
	if note != "" {
		fields.Set("note", note)
	}
	return fields
}

// decodePOSModern handles the newer payment and ATM layout, where the
// head names the device kind and the reference moved to its own column:
//
//	BEA, Google Pay | merchant,PASnnn | NR:..., DD.MM.YY/HH:MM | location | note
func decodePOSModern(d *Decoder, s string) *ordered.Map {
	head, tail := headTail(s)
	m := modernPOSRef.FindStringSubmatch(col(tail, colWidth, 2*colWidth))
	if m == nil {
		return d.fallback(s)
	}
	date, tod, ok := parseStamp(m[2])
	if !ok {
		return d.fallback(s)
	}
	merchant, card := splitMerchant(col(tail, 0, colWidth))
	location := col(tail, 2*colWidth, 3*colWidth)
	note := col(tail, 3*colWidth, -1)

	typ := TypePOSDebit
	switch {
	case strings.HasPrefix(head, "GEA"):
		typ = TypeATMWithdrawal
	case strings.Contains(note, reversalNote):
		typ = TypePOSCredit
	}

	fields := ordered.New()
	fields.Set("type", typ)
	fields.Set("subtype", head)
	fields.Set("merchant", merchant)
	fields.Set("card", card)
	fields.Set("reference", m[1])
	fields.Set("date", date)
	fields.Set("time", tod)
	fields.Set("location", location)
	if note != "" {
		fields.Set("note", note)
	}
	return fields
}
