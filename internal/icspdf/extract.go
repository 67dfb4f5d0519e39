package icspdf

import (
	"fmt"
	"sort"

	"github.com/ledongthuc/pdf"

	"github.com/afschrift-dev/afschrift/internal/model"
)

// ReadFile extracts all transactions from one ICS statement PDF. This
// is the only place that touches PDF structure; the result of the
// extraction is plain positioned text handed to Page.
func ReadFile(path string) ([]model.CreditCardTransaction, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var pages []*Page
	for nr := 1; nr <= r.NumPage(); nr++ {
		pg := r.Page(nr)
		if pg.V.IsNull() {
			continue
		}
		page := NewPage(nr)
		for _, run := range textRuns(pg.Content().Text) {
			if err := page.Add(run); err != nil {
				return nil, fmt.Errorf("page %d: %w", nr, err)
			}
		}
		pages = append(pages, page)
	}
	return Transactions(pages)
}

// textRuns merges the fragment-level text the extractor yields into
// per-cell runs: fragments sharing a baseline belong to one run until
// a horizontal gap wider than the font size, which marks a column
// boundary in this layout.
func textRuns(frags []pdf.Text) []TextItem {
	if len(frags) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var runs []TextItem
	var cur TextItem
	var endX float64
	flush := func() {
		if cur.S != "" {
			runs = append(runs, cur)
			cur = TextItem{}
		}
	}
	for _, f := range sorted {
		sameLine := cur.S != "" && f.Y == cur.Y
		if !sameLine || f.X-endX > f.FontSize {
			flush()
			cur = TextItem{X: f.X, Y: f.Y, FontSize: f.FontSize, S: f.S}
			endX = f.X + f.W
			continue
		}
		// Wide intra-cell gaps are word spaces the extractor dropped.
		if f.X-endX > f.FontSize*0.2 {
			cur.S += " "
		}
		cur.S += f.S
		endX = f.X + f.W
	}
	flush()
	return runs
}
