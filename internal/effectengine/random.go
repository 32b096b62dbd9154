package effectengine

import (
	"math/rand"
	"sync"
)

// LargePrime is the wraparound modulus constant used to mix seeds into the
// random effect's window arithmetic.
const LargePrime uint64 = 4294967291

const randomTableSize = 16384

var (
	randomTableOnce sync.Once
	randomTable     [randomTableSize]float64
	randomEvenSum   float64
	randomOddSum    float64
)

// ensureRandomTable lazily builds the process-wide pseudorandom table the
// first time a random effect is evaluated, and never again — every
// subsequent call and every random effect in the process shares one table.
func ensureRandomTable() {
	randomTableOnce.Do(func() {
		source := rand.New(rand.NewSource(1))
		for i := 0; i < randomTableSize; i++ {
			v := source.Float64()
			randomTable[i] = v
			if i%2 == 1 {
				randomEvenSum += v
			} else {
				randomOddSum += v
			}
		}
	})
}

// randomWindowSize computes the total span the effective time wraps
// against, given the two child effects' min/variation parameters.
func randomWindowSize(aMin, aVariation, bMin, bVariation float64) float64 {
	ensureRandomTable()
	half := float64(randomTableSize) / 2
	return randomOddSum*aVariation + half*aMin + randomEvenSum*bVariation + half*bMin
}
