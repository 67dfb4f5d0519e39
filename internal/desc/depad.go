package desc

import (
	"regexp"
	"strconv"
	"strings"
)

// Rejoin removes the artifact spaces the export inserts into the
// description field. The source prints the text in fixed-width lines
// (32 characters for the first, 64 for the rest) and then joins the
// lines with a single space, which lands in the middle of words that
// straddle a line boundary. Slash-delimited structured records are
// written in one piece and pass through untouched.
func Rejoin(s string) string {
	if strings.HasPrefix(s, "/") {
		return s
	}
	if len(s) <= colWidth || s[colWidth] != ' ' {
		return s
	}
	rest := strings.TrimRight(s[colWidth+1:], " ")

	var b strings.Builder
	b.WriteString(s[:colWidth])
	for i := 0; i < len(rest); {
		n := i + 2*colWidth
		if n > len(rest) {
			n = len(rest)
		}
		b.WriteString(rest[i:n])
		i = n
		if i < len(rest) && rest[i] == ' ' {
			i++
		}
	}
	return b.String()
}

var spaceRun = regexp.MustCompile(`  +`)

// collapse reduces every run of two or more spaces to a single space,
// except inside the configured preserved substrings. Used only by the
// prose grammars; column-sliced values keep their spacing as-is.
func (d *Decoder) collapse(s string) string {
	if len(d.preserved) == 0 {
		return spaceRun.ReplaceAllString(s, " ")
	}

	// Shield preserved runs behind markers that contain no spaces,
	// collapse, then restore them.
	for i, p := range d.preserved {
		s = strings.ReplaceAll(s, p, "\x00"+strconv.Itoa(i)+"\x00")
	}
	s = spaceRun.ReplaceAllString(s, " ")
	for i, p := range d.preserved {
		s = strings.ReplaceAll(s, "\x00"+strconv.Itoa(i)+"\x00", p)
	}
	return s
}
