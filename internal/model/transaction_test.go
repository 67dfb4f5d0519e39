package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afschrift-dev/afschrift/internal/ordered"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTransaction_Consistent(t *testing.T) {
	txn := Transaction{
		StartSaldo: decimal.RequireFromString("9427.00"),
		EndSaldo:   decimal.RequireFromString("9550.01"),
		Amount:     decimal.RequireFromString("123.01"),
	}
	assert.True(t, txn.Consistent())

	txn.EndSaldo = decimal.RequireFromString("9550.02")
	assert.False(t, txn.Consistent())
}

func TestTransaction_AsJSONLike(t *testing.T) {
	desc := ordered.New()
	desc.Set("type", "pos_debit")
	desc.Set("merchant", "Hema EV123")

	txn := Transaction{
		Account:    "112233445",
		Order:      3,
		Currency:   "EUR",
		Date:       date("2023-12-30"),
		ValueDate:  date("2023-12-31"),
		StartSaldo: decimal.RequireFromString("100.00"),
		EndSaldo:   decimal.RequireFromString("75.00"),
		Amount:     decimal.RequireFromString("-25.00"),
		RawDesc:    "BEA   NR:A1B23C   30.12.21/09.15 Hema EV123,PAS123",
		Desc:       desc,
	}

	m := txn.AsJSONLike()
	assert.Equal(t, []string{
		"account", "currency", "date", "value_date", "order",
		"amount", "start_saldo", "end_saldo", "raw_description", "description",
	}, m.Keys())
	assert.Equal(t, "2023-12-30", m.GetString("date"))
	assert.Equal(t, "2023-12-31", m.GetString("value_date"))
	assert.Equal(t, "-25.00", m.GetString("amount"))
	assert.Equal(t, "100.00", m.GetString("start_saldo"))
	assert.Equal(t, "75.00", m.GetString("end_saldo"))

	data, err := json.Marshal(m)
	require.NoError(t, err)

	// Amounts serialize as strings; a JSON round-trip keeps both the
	// exact digits and the key order.
	back := ordered.New()
	require.NoError(t, json.Unmarshal(data, back))
	assert.Equal(t, m.Keys(), back.Keys())
	assert.Equal(t, "-25.00", back.GetString("amount"))

	nested, ok := back.Get("description")
	require.True(t, ok)
	assert.Equal(t, []string{"type", "merchant"}, nested.(*ordered.Map).Keys())
}

func TestCreditCardTransaction_AsJSONLike(t *testing.T) {
	txn := CreditCardTransaction{
		CardNumber:   "1234",
		Date:         date("2023-12-09"),
		Descriptions: []string{"SUMUP  *EUROPEAN FOOBAR", "GATESHEAD"},
		CountryCode:  "GBR",
		Amount:       decimal.RequireFromString("-10.77"),
	}

	m := txn.AsJSONLike()
	assert.Equal(t, []string{
		"card_number", "date", "descriptions", "country_code",
		"foreign_amount", "foreign_currency", "exchange_rate", "amount",
	}, m.Keys())
	assert.Equal(t, "-10.77", m.GetString("amount"))

	// No foreign leg: the foreign fields are present but empty.
	assert.False(t, txn.HasForeign())
	assert.Equal(t, "", m.GetString("foreign_amount"))
	assert.Equal(t, "", m.GetString("foreign_currency"))
	assert.Equal(t, "", m.GetString("exchange_rate"))
}

func TestCreditCardTransaction_AsJSONLike_Foreign(t *testing.T) {
	txn := CreditCardTransaction{
		CardNumber:      "5678",
		Date:            date("2023-12-09"),
		Descriptions:    []string{"SUMUP  *EUROPEAN FOOBAR", "GATESHEAD"},
		CountryCode:     "GBR",
		ForeignAmount:   decimal.RequireFromString("-11.66"),
		ForeignCurrency: "GBP",
		ExchangeRate:    decimal.RequireFromString("1.08229"),
		Amount:          decimal.RequireFromString("-10.77"),
	}

	require.True(t, txn.HasForeign())
	m := txn.AsJSONLike()
	assert.Equal(t, "-11.66", m.GetString("foreign_amount"))
	assert.Equal(t, "GBP", m.GetString("foreign_currency"))
	assert.Equal(t, "1.08229", m.GetString("exchange_rate"))
}
