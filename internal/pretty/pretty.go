package pretty

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"mutalign/core/classify"
	"mutalign/core/mutant"
	"mutalign/core/result"
)

// Options control the ASCII rendering.
type Options struct {
	// Columns per wrapped chunk. If <=0, use default (60).
	Width int

	// Print the reference coordinates at the start of each chunk.
	ShowRuler bool

	// Glyph for the inserted gap, one column wide. Zero means '-'.
	GapGlyph byte
}

// DefaultOptions mirrors the classic clustal-like layout.
var DefaultOptions = Options{
	Width:     60,
	ShowRuler: true,
	GapGlyph:  classify.Gap,
}

const linePrefix = "# "

func (o Options) widthOrDefault() int {
	if o.Width <= 0 {
		return DefaultOptions.Width
	}
	return o.Width
}

func (o Options) gapOrDefault() byte {
	if o.GapGlyph == 0 {
		return DefaultOptions.GapGlyph
	}
	return o.GapGlyph
}

// Render prints the alignment of query's best mutant against ref: the
// reference window, the class markers and the mutant, wrapped at Width.
func Render(query, ref []byte, r result.Result, opt Options) string {
	var b strings.Builder
	if !r.Found() {
		fmt.Fprintf(&b, "%s(no alignment: query does not fit the reference)\n#\n", linePrefix)
		return b.String()
	}

	mut := mutant.Materialize(query, r.Mutant)
	win := ref[r.Offset : r.Offset+len(mut)]
	marks := make([]byte, len(mut))
	for i := range mut {
		marks[i] = classify.Of(win[i], mut[i]).Marker()
	}
	shown := bytes.ReplaceAll(mut, []byte{classify.Gap}, []byte{opt.gapOrDefault()})

	fmt.Fprintf(&b, "%soffset %d, gap after query position %d, score %s\n",
		linePrefix, r.Offset, r.Mutant, strconv.FormatFloat(r.Score, 'g', -1, 64))

	// ruler width: widest coordinate printed
	pad := len(strconv.Itoa(r.Offset + len(mut)))
	width := opt.widthOrDefault()
	for lo := 0; lo < len(mut); lo += width {
		hi := min(lo+width, len(mut))
		ruler, blank := "", ""
		if opt.ShowRuler {
			ruler = fmt.Sprintf("%*d ", pad, r.Offset+lo)
			blank = strings.Repeat(" ", pad+1)
		}
		fmt.Fprintf(&b, "%s%s%s\n", linePrefix, ruler, win[lo:hi])
		fmt.Fprintf(&b, "%s%s%s\n", linePrefix, blank, marks[lo:hi])
		fmt.Fprintf(&b, "%s%s%s\n", linePrefix, blank, shown[lo:hi])
	}
	b.WriteString("#\n")
	return b.String()
}
