// core/classify/classify.go
package classify

import "strings"

// Class is the substitution class of an aligned symbol pair.
type Class uint8

const (
	Match Class = iota
	Conservative
	SemiConservative
	Mismatch
)

// Gap is the symbol inserted into a query to build a mutant.
const Gap byte = '-'

var conservativeGroups = [...]string{
	"NDEQ", "NEQK", "STA", "MILV", "QHRK", "NHQK", "FYW", "HY", "MILF",
}

var semiConservativeGroups = [...]string{
	"SAG", "ATV", "CSA", "SGND", "STPA", "STNK", "NEQHRK", "NDEQHK", "SNDEQK", "HFY", "FVLIM",
}

// table[a][b] holds the class of every byte pair. Built once, never written after init.
var table = buildTable()

func buildTable() *[256][256]Class {
	var t [256][256]Class
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			t[a][b] = slowClass(byte(a), byte(b))
		}
	}
	return &t
}

func slowClass(a, b byte) Class {
	switch {
	case a == b:
		return Match
	case sameGroup(conservativeGroups[:], a, b):
		return Conservative
	case sameGroup(semiConservativeGroups[:], a, b):
		return SemiConservative
	default:
		return Mismatch
	}
}

func sameGroup(groups []string, a, b byte) bool {
	for _, g := range groups {
		if strings.IndexByte(g, a) >= 0 && strings.IndexByte(g, b) >= 0 {
			return true
		}
	}
	return false
}

// Of returns the class of the pair (a, b). Symmetric and case-sensitive.
func Of(a, b byte) Class { return table[a][b] }

// Marker returns the single-character alignment notation for c.
func (c Class) Marker() byte {
	switch c {
	case Match:
		return '*'
	case Conservative:
		return ':'
	case SemiConservative:
		return '.'
	default:
		return ' '
	}
}

func (c Class) String() string {
	switch c {
	case Match:
		return "match"
	case Conservative:
		return "conservative"
	case SemiConservative:
		return "semi-conservative"
	default:
		return "mismatch"
	}
}
