// internal/appcore/commit.go
package appcore

import (
	"io"

	"github.com/google/renameio/v2"

	"mutalign/internal/writers"
)

// commit writes the finished output to path ("-" is stdout). Files are
// replaced atomically, so a reader never sees a partial result set.
func commit(path string, stdout io.Writer, data []byte) error {
	if path == "-" || path == "" {
		_, err := stdout.Write(data)
		return writers.IgnoreBrokenPipe(err)
	}
	return renameio.WriteFile(path, data, 0o644)
}
