// internal/output/text.go
package output

import (
	"bufio"
	"io"
)

// Renderer returns an extra block printed after a row's line (pretty mode).
type Renderer func(Row) string

// StreamText prints one classic line per row, each followed by render(row)
// when render is non-nil.
func StreamText(w io.Writer, in <-chan Row, render Renderer) error {
	bw := bufio.NewWriter(w)
	for r := range in {
		if _, err := bw.WriteString(TextLine(r.Result) + "\n"); err != nil {
			return err
		}
		if render != nil {
			if _, err := bw.WriteString(render(r)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// StreamTSV prints TSVHeader (if header) and one TSVLine per row.
func StreamTSV(w io.Writer, in <-chan Row, header bool) error {
	bw := bufio.NewWriter(w)
	if header {
		if _, err := bw.WriteString(TSVHeader + "\n"); err != nil {
			return err
		}
	}
	for r := range in {
		if _, err := bw.WriteString(TSVLine(r) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
