// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"mutalign/internal/output"
)

// Options carry the per-run presentation switches.
type Options struct {
	Header bool
	// Render, if set, adds a block after each text line.
	Render output.Renderer
}

// StreamFunc consumes rows until in is closed.
type StreamFunc func(w io.Writer, in <-chan output.Row, opt Options) error

// Writer registry (format -> handler). Register in init() blocks.
var streamers = map[string]StreamFunc{}

// Register is idempotent last-wins.
func Register(format string, fn StreamFunc) { streamers[format] = fn }

// Formats returns the registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(streamers))
	for f := range streamers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Stream dispatches to the registered handler for format.
func Stream(format string, w io.Writer, in <-chan output.Row, opt Options) error {
	fn, ok := streamers[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(w, in, opt)
}

func init() {
	Register("text", func(w io.Writer, in <-chan output.Row, opt Options) error {
		return output.StreamText(w, in, opt.Render)
	})
	Register("tsv", func(w io.Writer, in <-chan output.Row, opt Options) error {
		return output.StreamTSV(w, in, opt.Header)
	})
	Register("json", func(w io.Writer, in <-chan output.Row, _ Options) error {
		var buf []output.Row
		for r := range in {
			buf = append(buf, r)
		}
		return output.WriteJSON(w, buf)
	})
	Register("jsonl", func(w io.Writer, in <-chan output.Row, _ Options) error {
		ch, done := StartJSONLWriter(w, cap(in))
		for r := range in {
			ch <- r
		}
		close(ch)
		return <-done
	})
}
