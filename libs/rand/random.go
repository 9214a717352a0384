package rand

import (
	crand "crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// NewRand returns a prng seeded with OS randomness. The OS randomness is
// obtained from crypto/rand, however, like with any math/rand.Rand object
// none of the provided methods are suitable for cryptographic usage.
func NewRand() *mrand.Rand {
	var seed int64
	if err := binary.Read(crand.Reader, binary.BigEndian, &seed); err != nil {
		// crypto/rand is documented to never fail on supported platforms;
		// a zero seed still yields a usable, merely predictable, source.
		seed = 0
	}
	return mrand.New(mrand.NewSource(seed))
}
