package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mutalign/core/result"
)

func sampleRows() []Row {
	return []Row{
		{Index: 0, Query: []byte("BC"), Result: result.Result{Score: 1, Offset: 1, Mutant: 2}},
		{Index: 1, ID: "long", Query: []byte("ABCDE"), Result: result.None()},
	}
}

func feed(rows []Row) <-chan Row {
	in := make(chan Row, len(rows))
	for _, r := range rows {
		in <- r
	}
	close(in)
	return in
}

func TestTSVHeader_Stable(t *testing.T) {
	const want = "query\toffset\tmutant\tscore\tfound"
	assert.Equal(t, want, TSVHeader)
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, StreamText(&buf, feed(sampleRows()), nil))
	assert.Equal(t, "Offset n = 1\tMS(2)\nOffset n = NA\tMS(NA)\n", buf.String())
}

func TestStreamText_Renderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, StreamText(&buf, feed(sampleRows()[:1]), func(r Row) string { return "# " + r.Name() + "\n" }))
	assert.Equal(t, "Offset n = 1\tMS(2)\n# 0\n", buf.String())
}

func TestStreamTSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, StreamTSV(&buf, feed(sampleRows()), true))
	assert.Equal(t, TSVHeader+"\n0\t1\t2\t1\ttrue\nlong\tNA\tNA\tNA\tfalse\n", buf.String())
}
