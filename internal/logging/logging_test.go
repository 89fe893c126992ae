package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info", "json")
	require.NoError(t, err)
	log.Sugar().Infow("query done", "rank", 2, "query", 7)
	log.Debug("hidden")

	line := strings.TrimSpace(buf.String())
	require.NotContains(t, line, "hidden")
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &m))
	assert.Equal(t, "query done", m["msg"])
	assert.EqualValues(t, 2, m["rank"])
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "debug", "console")
	require.NoError(t, err)
	log.Debug("tick")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "tick")
}

func TestNew_Errors(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)
	_, err = New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}
