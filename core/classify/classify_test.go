package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOf_Examples(t *testing.T) {
	cases := []struct {
		a, b byte
		want Class
	}{
		{'S', 'S', Match},
		{'S', 'A', Conservative}, // STA
		{'S', 'T', Conservative}, // STA wins over STPA/STNK
		{'S', 'G', SemiConservative},
		{'C', 'A', SemiConservative},
		{'H', 'Y', Conservative},
		{'F', 'H', SemiConservative}, // HFY
		{'S', 'W', Mismatch},
		{'B', 'C', Mismatch},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, Of(c.a, c.b), "Of(%c,%c)", c.a, c.b)
	}
}

func TestOf_Symmetric(t *testing.T) {
	const alphabet = "ACDEFGHIKLMNPQRSTVWY-"
	for i := 0; i < len(alphabet); i++ {
		for j := 0; j < len(alphabet); j++ {
			a, b := alphabet[i], alphabet[j]
			assert.Equalf(t, Of(a, b), Of(b, a), "pair %c/%c", a, b)
		}
	}
}

func TestOf_GapAlwaysMismatchAgainstLetters(t *testing.T) {
	for c := byte('A'); c <= 'Z'; c++ {
		assert.Equal(t, Mismatch, Of(c, Gap))
		assert.Equal(t, Mismatch, Of(Gap, c))
	}
}

func TestOf_CaseSensitive(t *testing.T) {
	assert.Equal(t, Mismatch, Of('s', 'A'))
	assert.Equal(t, Match, Of('s', 's'))
}

func TestWeightsScore(t *testing.T) {
	w := Weights{2, 0.5, 0.25, 1}
	assert.Equal(t, 2.0, Score('S', 'S', w))
	assert.Equal(t, -0.5, Score('S', 'A', w))
	assert.Equal(t, -0.25, Score('S', 'G', w))
	assert.Equal(t, -1.0, Score('S', 'W', w))
	assert.Equal(t, -1.0, Score('W', Gap, w))
}

func TestMarker(t *testing.T) {
	assert.Equal(t, byte('*'), Match.Marker())
	assert.Equal(t, byte(':'), Conservative.Marker())
	assert.Equal(t, byte('.'), SemiConservative.Marker())
	assert.Equal(t, byte(' '), Mismatch.Marker())
}
