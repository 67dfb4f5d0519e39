// Package tsv reads the bank's tab-separated account export
// (files named like TXT231122235959.TAB) into Transactions.
package tsv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/afschrift-dev/afschrift/internal/desc"
	"github.com/afschrift-dev/afschrift/internal/model"
)

const (
	numFields  = 8
	dateFormat = "20060102"

	colAccount    = 0
	colCurrency   = 1
	colDate       = 2
	colStartSaldo = 3
	colEndSaldo   = 4
	colValueDate  = 5
	colAmount     = 6
	colDesc       = 7
)

var (
	currencyShape = regexp.MustCompile(`^[A-Z]{3}$`)
	accountShape  = regexp.MustCompile(`^[0-9]+$`)
)

// MalformedRecordError reports a structural parse failure in one
// record: wrong field count, bad date or amount, unrecognized currency
// shape. Content that merely fails to match a description grammar is
// not an error; the decoder degrades it to type=unrecognized instead.
type MalformedRecordError struct {
	Line   int
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// Reader parses TSV exports. The zero value is not usable; create
// instances with NewReader.
type Reader struct {
	dec *desc.Decoder
	log *zap.Logger

	// KeepGoing makes Read log and skip malformed records instead of
	// stopping at the first one. A bad record never silently corrupts
	// the valid ones around it either way.
	KeepGoing bool
}

// NewReader creates a Reader using the given description decoder.
// A nil logger disables logging.
func NewReader(dec *desc.Decoder, log *zap.Logger) *Reader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reader{dec: dec, log: log}
}

// ReadFile reads and parses one export file.
func (r *Reader) ReadFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()
	return r.Read(f)
}

// Read parses all records from rd. Blank lines and lines whose first
// non-space character is '#' are skipped, so annotated sample files
// parse cleanly.
func (r *Reader) Read(rd io.Reader) ([]model.Transaction, error) {
	var txns []model.Transaction

	scanner := bufio.NewScanner(rd)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		txn, err := r.parseLine(line, lineNo, len(txns)+1)
		if err != nil {
			if r.KeepGoing {
				r.log.Error("skipping malformed record", zap.Error(err))
				continue
			}
			return nil, err
		}

		if !txn.Consistent() {
			// Upstream export data is occasionally inconsistent due to
			// value-date vs transaction-date timing. Report, continue.
			r.log.Warn("balance mismatch",
				zap.Int("line", lineNo),
				zap.String("start_saldo", txn.StartSaldo.StringFixed(2)),
				zap.String("amount", txn.Amount.StringFixed(2)),
				zap.String("end_saldo", txn.EndSaldo.StringFixed(2)))
		}
		txns = append(txns, txn)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	return txns, nil
}

func (r *Reader) parseLine(line string, lineNo, order int) (model.Transaction, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != numFields {
		return model.Transaction{}, &MalformedRecordError{
			Line:   lineNo,
			Reason: fmt.Sprintf("expected %d fields, got %d", numFields, len(fields)),
		}
	}

	if !accountShape.MatchString(fields[colAccount]) {
		return model.Transaction{}, &MalformedRecordError{
			Line:   lineNo,
			Reason: fmt.Sprintf("bad account id %q", fields[colAccount]),
		}
	}
	if !currencyShape.MatchString(fields[colCurrency]) {
		return model.Transaction{}, &MalformedRecordError{
			Line:   lineNo,
			Reason: fmt.Sprintf("bad currency code %q", fields[colCurrency]),
		}
	}

	date, err := parseDate(fields[colDate])
	if err != nil {
		return model.Transaction{}, &MalformedRecordError{Line: lineNo, Reason: "parsing transaction date", Err: err}
	}
	valueDate, err := parseDate(fields[colValueDate])
	if err != nil {
		return model.Transaction{}, &MalformedRecordError{Line: lineNo, Reason: "parsing value date", Err: err}
	}
	startSaldo, err := parseAmount(fields[colStartSaldo])
	if err != nil {
		return model.Transaction{}, &MalformedRecordError{Line: lineNo, Reason: "parsing start balance", Err: err}
	}
	endSaldo, err := parseAmount(fields[colEndSaldo])
	if err != nil {
		return model.Transaction{}, &MalformedRecordError{Line: lineNo, Reason: "parsing end balance", Err: err}
	}
	amount, err := parseAmount(fields[colAmount])
	if err != nil {
		return model.Transaction{}, &MalformedRecordError{Line: lineNo, Reason: "parsing amount", Err: err}
	}

	raw := fields[colDesc]
	return model.Transaction{
		Account:    fields[colAccount],
		Order:      order,
		Currency:   fields[colCurrency],
		Date:       date,
		ValueDate:  valueDate,
		StartSaldo: startSaldo,
		EndSaldo:   endSaldo,
		Amount:     amount,
		RawDesc:    raw,
		Desc:       r.dec.Decode(raw),
	}, nil
}

// parseDate parses the strict 8-digit YYYYMMDD date of the export.
func parseDate(s string) (time.Time, error) {
	if len(s) != len(dateFormat) {
		return time.Time{}, fmt.Errorf("bad date %q", s)
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
	}
	return t, nil
}

// parseAmount parses a comma-decimal amount ("-25,00") into an exact
// decimal. Binary floats never enter the pipeline.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("bad amount %q: %w", s, err)
	}
	return d, nil
}
