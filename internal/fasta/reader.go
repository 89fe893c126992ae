// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one FASTA entry.
type Record struct {
	ID  string
	Seq []byte
}

var ErrNoRecords = errors.New("fasta: no records")

// ReadFile reads every record of path. "-" reads stdin; gzip input is
// detected by magic number or a .gz suffix.
func ReadFile(path string) ([]Record, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	recs, err := Read(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// Read parses FASTA from r. Sequence lines are upper-cased and joined;
// whitespace inside sequence lines is dropped.
func Read(r io.Reader) ([]Record, error) {
	var (
		out []Record
		cur *Record
	)
	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadBytes('\n')
		eof := err == io.EOF
		if err != nil && !eof {
			return nil, err
		}
		line = bytes.TrimRight(line, "\r\n")
		switch {
		case len(line) > 0 && line[0] == '>':
			fields := strings.Fields(string(line[1:]))
			if len(fields) == 0 {
				return nil, fmt.Errorf("line %d: empty header", lineNo)
			}
			out = append(out, Record{ID: fields[0]})
			cur = &out[len(out)-1]
		case len(bytes.TrimSpace(line)) == 0:
		case cur == nil:
			return nil, fmt.Errorf("line %d: sequence data before first header", lineNo)
		default:
			for _, f := range bytes.Fields(line) {
				cur.Seq = append(cur.Seq, bytes.ToUpper(f)...)
			}
		}
		if eof {
			break
		}
	}
	if len(out) == 0 {
		return nil, ErrNoRecords
	}
	return out, nil
}

/* ---------------- small helpers ---------------- */

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	_, _ = fh.Seek(0, io.SeekStart)
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}

// Open exposes the same stdin/gzip handling for other plain-text inputs.
func Open(path string) (io.ReadCloser, error) { return openReader(path) }
