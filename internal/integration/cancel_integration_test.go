package integration

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mutalign/internal/app"
)

func TestCtrlC_MidSearch_Exit130(t *testing.T) {
	// Big enough that the search is still running when the cancel lands.
	ref := strings.Repeat("ACDEFGHIKLMNPQRSTVWY", 10000)
	query := strings.Repeat("MKV", 100)
	in := filepath.Join(t.TempDir(), "big.txt")
	require.NoError(t, os.WriteFile(in, []byte("1 1 1 1\n"+ref+"\n2\n"+query+"\n"+query+"\n"), 0o644))
	out := filepath.Join(t.TempDir(), "output.txt")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	code := app.RunContext(ctx, []string{"run", "-i", in, "-o", out, "-w", "2", "--log-level", "error"}, io.Discard, io.Discard)
	assert.Equal(t, 130, code)
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "no output after cancel")
}
