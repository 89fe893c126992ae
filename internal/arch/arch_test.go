// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

const mod = "mutalign/"

func TestImportBoundaries(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go tool not on PATH")
	}
	cmd := exec.Command("go", "list", "-json", mod+"...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	presentation := []string{
		"mutalign/internal/writers", "mutalign/internal/output", "mutalign/internal/pretty",
	}
	shell := []string{
		"mutalign/internal/appcore", "mutalign/internal/app", "mutalign/internal/cli", "mutalign/cmd/",
	}
	bans := map[string][]string{
		// the core is domain-only; no application packages
		"mutalign/core/":             {"mutalign/internal/", "mutalign/pkg/", "mutalign/cmd/"},
		"mutalign/internal/cluster":  append(append([]string{"mutalign/internal/config", "mutalign/internal/metrics"}, presentation...), shell...),
		"mutalign/internal/writers":  append([]string{"mutalign/internal/cluster"}, shell...),
		"mutalign/internal/output":   append([]string{"mutalign/internal/cluster", "mutalign/internal/writers"}, shell...),
		"mutalign/internal/pretty":   append([]string{"mutalign/internal/cluster", "mutalign/internal/writers"}, shell...),
		"mutalign/internal/config":   shell,
		"mutalign/internal/input":    append(append([]string{"mutalign/internal/cluster"}, presentation...), shell...),
		"mutalign/internal/metrics":  append(presentation, shell...),
		"mutalign/internal/logging":  shell,
		"mutalign/pkg/":              {"mutalign/internal/", "mutalign/core/", "mutalign/cmd/"},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, mod) {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, mod) {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
