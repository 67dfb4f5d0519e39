// Package desc decodes the free-text description field of bank export
// rows. The field is a concatenation of fixed-width columns holding
// several mutually incompatible layouts that evolved over the years;
// the decoder sniffs the leading pattern, picks the matching grammar,
// and returns an ordered label-to-value mapping.
package desc

import (
	"regexp"
	"strings"

	"github.com/afschrift-dev/afschrift/internal/ordered"
)

// Grammar type identifiers, emitted under the synthetic "type" key.
const (
	TypeStructuredTransfer = "structured_transfer"
	TypePOSDebit           = "pos_debit"
	TypePOSCredit          = "pos_credit"
	TypeATMWithdrawal      = "atm_withdrawal"
	TypeDirectDebit        = "direct_debit"
	TypeWireTransfer       = "wire_transfer"
	TypeInterest           = "interest"
	TypeCardFee            = "card_subscription_fee"
	TypeLegacyInsurance    = "legacy_insurance"
	TypeUnrecognized       = "unrecognized"
)

// colWidth is the width of the leading fixed column; everything the
// export writes after it comes in columns of 2*colWidth characters.
const colWidth = 32

// DecodeFunc turns one rejoined description string into its field
// mapping. Implementations must be total: on structurally broken input
// they return d.fallback(s) instead of failing.
type DecodeFunc func(d *Decoder, s string) *ordered.Map

// Grammar couples a literal, case-sensitive description prefix with
// the decode routine for that layout. First registered match wins.
type Grammar struct {
	Prefix string
	Decode DecodeFunc
}

// Decoder converts raw description blobs into ordered field mappings.
// It is stateless across calls and safe for concurrent use once built.
type Decoder struct {
	grammars  []Grammar
	labels    *regexp.Regexp
	preserved []string
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithGrammars registers extra grammars ahead of the built-in ones.
func WithGrammars(gs ...Grammar) Option {
	return func(d *Decoder) {
		d.grammars = append(append([]Grammar{}, gs...), d.grammars...)
	}
}

// WithLabelVocabulary replaces the label vocabulary recognized by the
// SEPA label grammar.
func WithLabelVocabulary(labels ...string) Option {
	return func(d *Decoder) {
		d.labels = labelPattern(labels)
	}
}

// WithPreservedRuns lists substrings whose internal multi-space runs
// must survive whitespace collapsing. Some proper nouns legitimately
// contain a double space that the collapse step would otherwise eat.
func WithPreservedRuns(runs ...string) Option {
	return func(d *Decoder) {
		d.preserved = append(d.preserved, runs...)
	}
}

// defaultLabels is the label vocabulary of the SEPA text layouts.
// Labels act as delimiters: a column starting with "<label>: " opens a
// new field and runs until the next labeled column.
var defaultLabels = []string{
	"Incassant", "BIC", "Naam", "Machtiging", "Omschrijving",
	"IBAN", "Kenmerk", "Voor",
}

func labelPattern(labels []string) *regexp.Regexp {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = regexp.QuoteMeta(l)
	}
	return regexp.MustCompile(`^(` + strings.Join(quoted, "|") + `): (.+)$`)
}

// New creates a Decoder with the built-in grammar table.
func New(opts ...Option) *Decoder {
	d := &Decoder{
		labels: labelPattern(defaultLabels),
		grammars: []Grammar{
			{Prefix: "BEA, ", Decode: decodePOSModern},
			{Prefix: "GEA, ", Decode: decodePOSModern},
			{Prefix: "BEA ", Decode: decodePOSLegacy},
			{Prefix: "SEPA Incasso", Decode: decodeSEPA},
			{Prefix: "SEPA ", Decode: decodeSEPA},
			{Prefix: "Basic interest", Decode: decodeInterest},
			{Prefix: "CREDIT INTEREST", Decode: decodeInterest},
			{Prefix: "ABN AMRO Bank", Decode: decodeFees},
			{Prefix: "Maandpremie ", Decode: decodeInsurance},
			{Prefix: "Uitbetaling pakketkorting", Decode: decodeInsurance},
			{Prefix: "PAKKETVERZ. POLISNR.", Decode: decodeInsurance},
		},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Decode maps one raw description string to its ordered field mapping.
// It never fails: input that matches no grammar degrades to
// type=unrecognized with the trimmed text under "description".
func (d *Decoder) Decode(raw string) *ordered.Map {
	s := Rejoin(raw)
	if fields, ok := decodeStructured(s); ok {
		return fields
	}
	for _, g := range d.grammars {
		if strings.HasPrefix(s, g.Prefix) {
			return g.Decode(d, s)
		}
	}
	return d.fallback(s)
}

// fallback is the catch-all mapping for unrecognized or broken input.
func (d *Decoder) fallback(s string) *ordered.Map {
	fields := ordered.New()
	fields.Set("type", TypeUnrecognized)
	fields.Set("description", strings.TrimSpace(s))
	return fields
}

// headTail splits a rejoined description into the first fixed column
// (right-trimmed) and everything after it.
func headTail(s string) (head, tail string) {
	if len(s) <= colWidth {
		return strings.TrimRight(s, " "), ""
	}
	return strings.TrimRight(s[:colWidth], " "), strings.TrimRight(s[colWidth:], " ")
}

// col slices [lo,hi) out of s, tolerating short input, and trims the
// right-padding. hi < 0 means "to the end".
func col(s string, lo, hi int) string {
	if lo >= len(s) {
		return ""
	}
	if hi < 0 || hi > len(s) {
		hi = len(s)
	}
	return strings.TrimRight(s[lo:hi], " ")
}

// chunks32 cuts s into 32-character column chunks; the last chunk may
// be shorter.
func chunks32(s string) []string {
	var out []string
	for len(s) > colWidth {
		out = append(out, s[:colWidth])
		s = s[colWidth:]
	}
	if len(s) > 0 {
		out = append(out, s)
	}
	return out
}
