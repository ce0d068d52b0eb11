package ledger

import (
	"math/big"
	"time"

	"attest-go/internal/attest"
)

// BlockClock derives a block height from wall-clock time: one block per
// BlockTime since Genesis.
type BlockClock struct {
	Genesis   time.Time
	BlockTime time.Duration
	Clock     attest.Clock
}

// Height returns the current height. Times before genesis are height 0.
func (b BlockClock) Height() *big.Int {
	elapsed := b.Clock.Now().Sub(b.Genesis)
	if elapsed < 0 || b.BlockTime <= 0 {
		return big.NewInt(0)
	}
	return big.NewInt(int64(elapsed / b.BlockTime))
}
