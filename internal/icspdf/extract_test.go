package icspdf

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextRuns(t *testing.T) {
	// Fragments arrive in arbitrary order; runs come back top to bottom,
	// left to right. A wide gap starts a new run, a narrow one is a
	// dropped word space, touching glyphs join without one.
	frags := []pdf.Text{
		{X: 103, Y: 500, W: 22, FontSize: 8, S: "10 dec"},
		{X: 59.5, Y: 500, W: 4, FontSize: 8, S: "9"},
		{X: 65.5, Y: 500, W: 12, FontSize: 8, S: "dec"},
		{X: 150, Y: 480, W: 6, FontSize: 8, S: "AL"},
		{X: 156.2, Y: 480, W: 14, FontSize: 8, S: "BERT"},
	}

	runs := textRuns(frags)
	require.Len(t, runs, 3)

	assert.Equal(t, "9 dec", runs[0].S)
	assert.Equal(t, 59.5, runs[0].X)
	assert.Equal(t, 500.0, runs[0].Y)

	assert.Equal(t, "10 dec", runs[1].S)
	assert.Equal(t, 103.0, runs[1].X)

	assert.Equal(t, "ALBERT", runs[2].S)
	assert.Equal(t, 480.0, runs[2].Y)
}

func TestTextRuns_Empty(t *testing.T) {
	assert.Nil(t, textRuns(nil))
}
