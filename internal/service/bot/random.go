package bot

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

// Rand is the source used for the fallback move.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a ChaCha-based generator. The same seed always yields the
// same sequence.
func NewRand(seed int64) Rand {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], uint64(seed))
	return frand.NewCustom(key[:], 1024, 12)
}

func newEntropyRand() Rand {
	return frand.NewCustom(frand.Bytes(32), 1024, 12)
}
