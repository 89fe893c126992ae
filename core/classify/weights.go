package classify

// Weights holds the four class weights in input order:
// match, conservative, semi-conservative, mismatch.
type Weights [4]float64

// Score returns the signed contribution of class c. A match adds its weight;
// every other class subtracts its weight.
func (w Weights) Score(c Class) float64 {
	if c == Match {
		return w[Match]
	}
	return -w[c]
}

// Score classifies (a, b) and returns its weighted contribution.
func Score(a, b byte, w Weights) float64 { return w.Score(Of(a, b)) }
