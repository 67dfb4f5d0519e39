// Package icspdf converts ICS credit-card PDF statements into
// CreditCardTransactions. PDF text extraction is a thin collaborator
// (extract.go); everything else works on plain positioned text items
// and is tested without PDFs.
package icspdf

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TextItem is one positioned text run from a statement page.
type TextItem struct {
	X        float64 // increases left to right
	Y        float64 // increases bottom to top
	FontSize float64
	S        string
}

// Dutch month names as printed on the statements. Note "mrt": the
// short form is not the first three letters of "maart".
var (
	monthsLong = map[string]time.Month{
		"januari": 1, "februari": 2, "maart": 3, "april": 4,
		"mei": 5, "juni": 6, "juli": 7, "augustus": 8,
		"september": 9, "oktober": 10, "november": 11, "december": 12,
	}
	monthsShort = map[string]time.Month{
		"jan": 1, "feb": 2, "mrt": 3, "apr": 4, "mei": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "okt": 10, "nov": 11, "dec": 12,
	}
)

// span is a half-open horizontal or vertical coordinate range.
type span struct{ lo, hi float64 }

func (s span) contains(v float64) bool { return s.lo <= v && v < s.hi }

// column describes one column of the transaction table, keyed by the
// x positions measured from real statements.
type column struct {
	x      span
	maxLen int
	name   string
}

var columns = []column{
	{span{59, 62}, 6, "transaction date"},
	{span{102, 106}, 6, "booking date"},
	// Usually up to 22 characters, but statement rows such as
	// "GEINCASSEERD VORIG SALDO" run wider.
	{span{149, 155}, 24, "description"},
	{span{275, 277}, 13, "description part 2"},
	{span{362, 364}, 3, "country code"},
	{span{401, 440}, 8, "foreign amount"}, // right-aligned
	{span{444, 446}, 3, "foreign currency"},
	{span{478, 530}, 8, "amount"}, // right-aligned
	{span{535, 539}, 3, "debit/credit"},
}

// boilerplate matches the recurring notices and advertisements printed
// between transactions; they carry no data.
var boilerplate = regexp.MustCompile(strings.Join([]string{
	`Uw betalingen aan International Card Services BV zijn bijgewerkt`,
	`Het totale saldo ad.*zal omstreeks`,
	`(machtigingsnummer )?E[0-9]+ worden geïncasseerd`,
	`Wilt u een overboeking doen naar uw Card-rekening`,
	`Diemen. Vermeld bij uw betaling altijd uw ICS-klantnummer`,
	`Nu beschikbaar: Apple Pay!`,
	`Als u online een product besteld heeft, bent u er natuurlijk`,
	`zuinig op. Maar een ongeluk zit in een klein hoekje`,
	`daarom altijd met uw ABN AMRO creditcard`,
	`een Aankoopverzekering. Kijk voor meer informatie`,
	`voorwaarden op www.zekermetjecreditcard.nl`,
}, "|"))

// Page accumulates the positioned text of one statement page into the
// transaction table.
type Page struct {
	Nr         int       // physical page index, 1-based
	Date       time.Time // statement date from the header
	PageNr     int       // page number printed on the page
	TotalPages int

	rows map[float64][]string
}

// NewPage creates an empty page accumulator.
func NewPage(nr int) *Page {
	return &Page{Nr: nr, rows: make(map[float64][]string)}
}

// Add places one text item into the page. Items outside the table
// (company address, footers, recurring notices) are ignored; text that
// fits no known zone or column is an error, which is the tripwire for
// a changed PDF layout.
func (p *Page) Add(it TextItem) error {
	if strings.TrimSpace(it.S) == "" {
		return nil
	}
	if it.FontSize == 6.0 {
		// Tiny footer print, not relevant.
		return nil
	}
	if boilerplate.MatchString(it.S) {
		return nil
	}
	if it.FontSize != 8.0 {
		return fmt.Errorf("unexpected font size %v for %q: has the PDF layout changed?", it.FontSize, it.S)
	}

	switch {
	case p.Nr == 1 && it.Y >= 755:
		// ICS company name, address, telephone.
		return nil

	case it.Y >= 665 && it.Y < 721:
		return p.addStatementInfo(it)

	case statementTable(p.Nr).contains(it.Y):
		if it.Y >= 633 && it.Y < 645 {
			// Table header cells.
			return nil
		}
		for i, c := range columns {
			if c.x.contains(it.X) {
				p.row(it.Y)[i] = it.S
				return nil
			}
		}
		return fmt.Errorf("no column matches x=%v for %q", it.X, it.S)

	case p.Nr == 1 && it.Y < 126:
		// Credit limit and minimal payment footer.
		return nil

	default:
		return fmt.Errorf("no zone matches y=%v for %q", it.Y, it.S)
	}
}

// statementTable is the y range of the transaction table; the first
// page gives its bottom to the footer.
func statementTable(pageNr int) span {
	if pageNr == 1 {
		return span{126, 645}
	}
	return span{0, 645}
}

// addStatementInfo reads the header zone: statement date, printed page
// number, and total page count.
//
//	Datum           ICS-klantnummer  Volgnummer  Bladnummer
//	1 januari 2024  12345678901      1           2 van 2
func (p *Page) addStatementInfo(it TextItem) error {
	if it.Y < 708 || it.Y > 710 {
		return nil
	}
	switch {
	case it.X >= 59 && it.X <= 61:
		d, err := parseLongDate(it.S)
		if err != nil {
			return err
		}
		p.Date = d
	case it.X >= 410 && it.X <= 412:
		nr, err := strconv.Atoi(strings.TrimSpace(it.S))
		if err != nil {
			return fmt.Errorf("bad page number %q: %w", it.S, err)
		}
		if nr != p.Nr {
			return fmt.Errorf("printed page number %d does not match page %d", nr, p.Nr)
		}
		p.PageNr = nr
	case it.X >= 420:
		_, total, ok := strings.Cut(it.S, "van ")
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(total))
		if err != nil {
			return fmt.Errorf("bad page count %q: %w", it.S, err)
		}
		p.TotalPages = n
	}
	return nil
}

// parseLongDate parses "1 januari 2024".
func parseLongDate(s string) (time.Time, error) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("bad statement date %q", s)
	}
	d, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("bad statement date %q: %w", s, err)
	}
	m, ok := monthsLong[parts[1]]
	if !ok {
		return time.Time{}, fmt.Errorf("bad month in statement date %q", s)
	}
	y, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("bad statement date %q: %w", s, err)
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// row returns the cell slice for baseline y, creating it on first use.
func (p *Page) row(y float64) []string {
	if _, ok := p.rows[y]; !ok {
		p.rows[y] = make([]string, len(columns))
	}
	return p.rows[y]
}

// SetRow places a full raw table row at baseline y. Tests use it to
// build pages without going through a PDF.
func (p *Page) SetRow(y float64, cells []string) {
	row := make([]string, len(columns))
	copy(row, cells)
	p.rows[y] = row
}

// Rows returns the table rows top to bottom. A first cell wider than
// its column is a full-width row (card headers, holder names) and
// collapses to a single cell.
func (p *Page) Rows() [][]string {
	ys := make([]float64, 0, len(p.rows))
	for y := range p.rows {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ys)))

	out := make([][]string, 0, len(ys))
	for _, y := range ys {
		row := p.rows[y]
		if len(row[0]) > columns[0].maxLen {
			out = append(out, []string{strings.TrimSpace(row[0])})
			continue
		}
		trimmed := make([]string, len(row))
		for i, cell := range row {
			trimmed[i] = strings.TrimSpace(cell)
		}
		out = append(out, trimmed)
	}
	return out
}
