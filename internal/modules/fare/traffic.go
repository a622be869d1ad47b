// README: Pluggable traffic coefficient sources.
package fare

import "math/rand"

const (
	factorNormal = 1.0
	factorHeavy  = 1.5

	StatusNormal = "Normal"
	StatusHeavy  = "Heavy"

	heavyProbability = 0.2
)

// Source supplies the traffic coefficient for one estimate. It is the only
// nondeterministic input to the estimator, so callers inject it rather than
// the estimator reaching for a global random source.
type Source interface {
	Factor() (float64, string)
}

// RandomSource draws heavy traffic with a fixed probability.
type RandomSource struct {
	rng *rand.Rand
}

func NewRandomSource(rng *rand.Rand) *RandomSource {
	return &RandomSource{rng: rng}
}

func (s *RandomSource) Factor() (float64, string) {
	if s.rng.Float64() < heavyProbability {
		return factorHeavy, StatusHeavy
	}
	return factorNormal, StatusNormal
}

// FixedSource pins the coefficient, used by quoting tests and anywhere a
// reproducible fare is needed.
type FixedSource struct {
	Coefficient float64
}

func (s FixedSource) Factor() (float64, string) {
	if s.Coefficient > factorNormal {
		return s.Coefficient, StatusHeavy
	}
	return s.Coefficient, StatusNormal
}
