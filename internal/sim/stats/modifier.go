// Package stats provides the additive percent modifier applied to
// combat stats (damage, range, hit chance, received damage, regen).
package stats

// Modifier is a relative stat modification in percent points. Multiple
// modifications compose additively: +50% and +20% give +70%, not +80%.
type Modifier struct {
	Percent int
}

// Add accumulates another modification onto this one.
func (m *Modifier) Add(percent int) {
	m.Percent += percent
}

// Apply computes the modified value. Integer math rounds down, and the
// result is clamped at zero (a -150% modifier nullifies, it does not
// turn damage into healing).
func (m Modifier) Apply(val int) int {
	p := 100 + m.Percent
	if p <= 0 {
		return 0
	}
	return val * p / 100
}

// IsNeutral reports whether the modifier leaves values unchanged.
func (m Modifier) IsNeutral() bool {
	return m.Percent == 0
}
