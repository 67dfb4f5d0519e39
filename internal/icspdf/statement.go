package icspdf

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/afschrift-dev/afschrift/internal/model"
)

var cardHeader = regexp.MustCompile(`^Uw Card met als laatste vier cijfers ([0-9]+)$`)

// Transactions assembles the transactions of one statement from its
// pages. Pages must be in order and share the statement date.
func Transactions(pages []*Page) ([]model.CreditCardTransaction, error) {
	if len(pages) == 0 {
		return nil, nil
	}

	stmtDate := pages[0].Date
	var table [][]string
	for i, page := range pages {
		if page.Nr != i+1 {
			return nil, fmt.Errorf("page %d out of order (position %d)", page.Nr, i+1)
		}
		if !page.Date.Equal(stmtDate) {
			return nil, fmt.Errorf("page %d has statement date %s, expected %s",
				page.Nr, page.Date.Format("2006-01-02"), stmtDate.Format("2006-01-02"))
		}
		table = append(table, page.Rows()...)
	}

	var txns []model.CreditCardTransaction
	cardNumber := ""
	for _, group := range groupRows(table) {
		first := group[0]
		var second []string
		if len(group) > 1 {
			second = group[1]
		}
		if len(group) > 2 {
			return nil, fmt.Errorf("unexpected %d-row group starting with %q", len(group), first[0])
		}

		switch {
		case len(first) == 1 && len(second) == 1:
			// Card header plus holder name. The name is not kept.
			m := cardHeader.FindStringSubmatch(first[0])
			if m == nil {
				return nil, fmt.Errorf("unexpected full-width row %q", first[0])
			}
			cardNumber = m[1]

		case len(first) == len(columns):
			txn, err := buildTransaction(cardNumber, stmtDate, first, second)
			if err != nil {
				return nil, err
			}
			txns = append(txns, txn)

		default:
			return nil, fmt.Errorf("unexpected row shape %v", first)
		}
	}
	return txns, nil
}

// groupRows splits the table into per-transaction groups. A row opens
// a group when it carries a transaction date or is a card header;
// exchange-rate rows and holder names attach to the group above them.
func groupRows(table [][]string) [][][]string {
	var groups [][][]string
	var buf [][]string
	for _, row := range table {
		opens := (len(row) == 1 && strings.HasPrefix(row[0], "Uw Card")) ||
			(len(row) == len(columns) && row[0] != "")
		if opens && len(buf) > 0 {
			groups = append(groups, buf)
			buf = nil
		}
		buf = append(buf, row)
	}
	if len(buf) > 0 {
		groups = append(groups, buf)
	}
	return groups
}

func buildTransaction(cardNumber string, stmtDate time.Time, first, second []string) (model.CreditCardTransaction, error) {
	date, err := resolveDate(first[0], stmtDate)
	if err != nil {
		return model.CreditCardTransaction{}, err
	}
	// first[1] is the booking date: the same or the next working day,
	// not interesting.

	amount, err := parseSignedAmount(first[7], first[8])
	if err != nil {
		return model.CreditCardTransaction{}, err
	}

	txn := model.CreditCardTransaction{
		CardNumber:   cardNumber,
		Date:         date,
		Descriptions: []string{first[2], first[3]},
		CountryCode:  first[4],
		Amount:       amount,
	}

	hasForeign := first[5] != "" && first[6] != ""
	switch {
	case !hasForeign && second == nil:
		return txn, nil

	case hasForeign && len(second) == len(columns):
		if want := "Wisselkoers " + first[6]; second[2] != want {
			return model.CreditCardTransaction{}, fmt.Errorf("expected %q row, got %q", want, second[2])
		}
		foreign, err := parseStatementAmount(first[5])
		if err != nil {
			return model.CreditCardTransaction{}, err
		}
		rate, err := parseStatementAmount(second[3])
		if err != nil {
			return model.CreditCardTransaction{}, err
		}
		txn.ForeignAmount = foreign
		txn.ForeignCurrency = first[6]
		txn.ExchangeRate = rate
		return txn, nil

	default:
		return model.CreditCardTransaction{}, fmt.Errorf("unexpected transaction group for %q", first[2])
	}
}

// resolveDate parses a "dd mmm" table date. The year is not printed;
// it is whichever of the statement's year or the year before puts the
// date nearest the statement date.
func resolveDate(s string, stmtDate time.Time) (time.Time, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("bad transaction date %q", s)
	}
	var day int
	if _, err := fmt.Sscanf(parts[0], "%d", &day); err != nil {
		return time.Time{}, fmt.Errorf("bad transaction date %q: %w", s, err)
	}
	month, ok := monthsShort[parts[1]]
	if !ok {
		return time.Time{}, fmt.Errorf("bad month in transaction date %q", s)
	}

	this := time.Date(stmtDate.Year(), month, day, 0, 0, 0, 0, time.UTC)
	last := time.Date(stmtDate.Year()-1, month, day, 0, 0, 0, 0, time.UTC)
	if absDuration(stmtDate.Sub(this)) < absDuration(stmtDate.Sub(last)) {
		return this, nil
	}
	return last, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// parseStatementAmount converts a localized amount ("1.234,56") to an
// exact decimal.
func parseStatementAmount(s string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("bad amount %q: %w", s, err)
	}
	return d, nil
}

// parseSignedAmount applies the Bij/Af column to the euro amount:
// Bij is credit, Af is debit.
func parseSignedAmount(amount, bijAf string) (decimal.Decimal, error) {
	d, err := parseStatementAmount(amount)
	if err != nil {
		return decimal.Decimal{}, err
	}
	switch bijAf {
	case "Bij":
		return d, nil
	case "Af":
		return d.Neg(), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("bad debit/credit marker %q", bijAf)
	}
}
