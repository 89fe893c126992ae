// internal/output/json_test.go
package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mutalign/core/result"
	"mutalign/pkg/api"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	rows := []Row{
		{Index: 0, ID: "q1", Query: []byte("BC"), Result: result.Result{Score: 1.5, Offset: 1, Mutant: 2}},
		{Index: 1, Query: []byte("XYZ"), Result: result.None()},
	}
	require.NoError(t, WriteJSON(&buf, rows))

	var got []api.ResultV1
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.True(t, got[0].Found)
	assert.Equal(t, "q1", got[0].QueryID)
	assert.Equal(t, 1, *got[0].Offset)
	assert.Equal(t, 2, *got[0].Mutant)
	assert.Equal(t, 1.5, *got[0].Score)
	assert.Equal(t, "BC-", got[0].Mutated)

	assert.False(t, got[1].Found)
	assert.Nil(t, got[1].Offset)
	assert.Equal(t, 3, got[1].Length)
	assert.NotContains(t, buf.String(), "Inf")
}
