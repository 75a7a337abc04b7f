package numeric

// PRNG is a linear congruential generator producing a deterministic
// sequence of uniform reals in [0, 1) from a seed. A full-featured PRNG
// (e.g. PCG, xoshiro) would be overkill and non-obviously-reproducible
// across Go versions; the pipeline's determinism guarantee (§8 property 6)
// is easiest to reason about with the textbook LCG recurrence.
type PRNG struct {
	state uint32
}

// NewPRNG seeds a generator. Equal seeds always produce equal sequences.
func NewPRNG(seed uint32) *PRNG {
	return &PRNG{state: seed}
}

// Next advances the generator and returns a uniform real in [0, 1),
// derived from the high bits of the LCG state (the low bits of an LCG
// are markedly less random).
func (p *PRNG) Next() float64 {
	p.state = p.state*1664525 + 1013904223
	return float64(p.state>>8) / float64(1<<24)
}
