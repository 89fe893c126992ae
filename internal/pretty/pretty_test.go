package pretty

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mutalign/core/result"
)

func TestRender_Block(t *testing.T) {
	got := Render([]byte("BC"), []byte("ABCDE"), result.Result{Score: 1, Offset: 1, Mutant: 2}, DefaultOptions)
	want := "# offset 1, gap after query position 2, score 1\n" +
		"# 1 BCD\n" +
		"#   ** \n" +
		"#   BC-\n" +
		"#\n"
	assert.Equal(t, want, got)
}

func TestRender_WrapsWithoutRuler(t *testing.T) {
	opt := Options{Width: 2, GapGlyph: '~'}
	got := Render([]byte("BC"), []byte("ABCDE"), result.Result{Score: 1, Offset: 1, Mutant: 2}, opt)
	want := "# offset 1, gap after query position 2, score 1\n" +
		"# BC\n" +
		"# **\n" +
		"# BC\n" +
		"# D\n" +
		"#  \n" +
		"# ~\n" +
		"#\n"
	assert.Equal(t, want, got)
}

func TestRender_Classes(t *testing.T) {
	// S/T conservative, S/G semi-conservative, S/W mismatch
	got := Render([]byte("TGW"), []byte("SSSSX"), result.Result{Score: 0, Offset: 0, Mutant: 3}, Options{})
	assert.Contains(t, got, "# SSSS\n# :.  \n# TGW-\n")
}

func TestRender_NotFound(t *testing.T) {
	got := Render([]byte("BC"), []byte("AB"), result.None(), DefaultOptions)
	assert.Contains(t, got, "no alignment")
}

func TestRender_GapGlyphKeepsColumns(t *testing.T) {
	got := Render([]byte("ABCD"), []byte("ABCDEFG"), result.Result{Score: 1, Offset: 0, Mutant: 2},
		Options{Width: 3, GapGlyph: '_'})
	want := "# offset 0, gap after query position 2, score 1\n" +
		"# ABC\n" +
		"# ** \n" +
		"# AB_\n" +
		"# DE\n" +
		"#  :\n" +
		"# CD\n" +
		"#\n"
	assert.Equal(t, want, got)
}
