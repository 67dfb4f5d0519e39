package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/afschrift-dev/afschrift/internal/ordered"
)

// dateFormat is the ISO date layout used in JSON output.
const dateFormat = "2006-01-02"

// Transaction is one row of the account TSV export, with its
// description decoded. Values are constructed once and never mutated;
// the decoded mapping is fully materialized at construction time.
type Transaction struct {
	Account    string // numeric-looking account id, kept as text
	Order      int    // 1-based row number, keeps same-day ordering
	Currency   string // three-letter code
	Date       time.Time
	ValueDate  time.Time
	StartSaldo decimal.Decimal
	EndSaldo   decimal.Decimal
	Amount     decimal.Decimal // negative = debit
	RawDesc    string          // verbatim export text, kept for audit
	Desc       *ordered.Map    // decoded description fields
}

// Consistent reports whether the balances and the amount agree within
// this row. Lines are independent snapshots; consistency is only
// checked per line, and a mismatch is a warning, not an error.
func (t Transaction) Consistent() bool {
	return t.StartSaldo.Add(t.Amount).Equal(t.EndSaldo)
}

// AsJSONLike returns an ordered, JSON-encodable view of the
// transaction. Amounts are fixed-2 strings so no binary-float
// round-trip can distort them; key order is stable and matches the
// decoder's field order inside "description".
func (t Transaction) AsJSONLike() *ordered.Map {
	m := ordered.New()
	m.Set("account", t.Account)
	m.Set("currency", t.Currency)
	m.Set("date", t.Date.Format(dateFormat))
	m.Set("value_date", t.ValueDate.Format(dateFormat))
	m.Set("order", t.Order)
	m.Set("amount", t.Amount.StringFixed(2))
	m.Set("start_saldo", t.StartSaldo.StringFixed(2))
	m.Set("end_saldo", t.EndSaldo.StringFixed(2))
	m.Set("raw_description", t.RawDesc)
	m.Set("description", t.Desc)
	return m
}

// CreditCardTransaction is one transaction from an ICS credit-card
// PDF statement.
type CreditCardTransaction struct {
	CardNumber   string // last four digits; empty for statement rows
	Date         time.Time
	Descriptions []string // ordered description lines
	CountryCode  string

	// Set only when the purchase was made in a foreign currency.
	ForeignAmount   decimal.Decimal
	ForeignCurrency string
	ExchangeRate    decimal.Decimal

	Amount decimal.Decimal // EUR, negative = debit
}

// HasForeign reports whether the transaction carries a foreign
// currency leg.
func (t CreditCardTransaction) HasForeign() bool {
	return t.ForeignCurrency != ""
}

// AsJSONLike returns an ordered, JSON-encodable view mirroring the TSV
// transaction mapping shape.
func (t CreditCardTransaction) AsJSONLike() *ordered.Map {
	foreignAmount, exchangeRate := "", ""
	if t.HasForeign() {
		foreignAmount = t.ForeignAmount.StringFixed(2)
		exchangeRate = t.ExchangeRate.String()
	}

	m := ordered.New()
	m.Set("card_number", t.CardNumber)
	m.Set("date", t.Date.Format(dateFormat))
	m.Set("descriptions", t.Descriptions)
	m.Set("country_code", t.CountryCode)
	m.Set("foreign_amount", foreignAmount)
	m.Set("foreign_currency", t.ForeignCurrency)
	m.Set("exchange_rate", exchangeRate)
	m.Set("amount", t.Amount.StringFixed(2))
	return m
}
