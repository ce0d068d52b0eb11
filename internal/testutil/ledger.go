package testutil

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"attest-go/internal/attest"
)

// ErrLedgerDown is returned by a StubLedger set to fail.
var ErrLedgerDown = errors.New("stub ledger unavailable")

// LedgerWrite records one CreateEntity call.
type LedgerWrite struct {
	Data        []byte
	BTL         uint64
	Annotations attest.Annotations
}

// StubLedger is an in-memory attest.Ledger with scripted receipts.
// Receipts are handed out in order; once they run out, keys are "ek-N" and
// expiration is height + btl. Safe for concurrent use.
type StubLedger struct {
	mu       sync.Mutex
	height   *big.Int
	receipts []attest.Receipt
	failures int
	failErr  error
	writes   []LedgerWrite
	calls    int
	entities map[string]*attest.LedgerEntity
}

var _ attest.Ledger = (*StubLedger)(nil)

// NewStubLedger creates a StubLedger at the given height.
func NewStubLedger(height int64, receipts ...attest.Receipt) *StubLedger {
	return &StubLedger{
		height:   big.NewInt(height),
		receipts: receipts,
		entities: make(map[string]*attest.LedgerEntity),
	}
}

// SetHeight moves the ledger to height.
func (l *StubLedger) SetHeight(height int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.height = big.NewInt(height)
}

// FailNext makes the next n CreateEntity calls return err. A nil err
// fails with ErrLedgerDown. A negative n fails every call.
func (l *StubLedger) FailNext(n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err == nil {
		err = ErrLedgerDown
	}
	l.failures = n
	l.failErr = err
}

// Calls returns how many times CreateEntity was called.
func (l *StubLedger) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// Writes returns the successful writes in order.
func (l *StubLedger) Writes() []LedgerWrite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LedgerWrite(nil), l.writes...)
}

func (l *StubLedger) CreateEntity(ctx context.Context, data []byte, btl uint64, annotations attest.Annotations) (*attest.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.failures != 0 {
		if l.failures > 0 {
			l.failures--
		}
		return nil, l.failErr
	}

	var receipt attest.Receipt
	if len(l.receipts) > 0 {
		receipt = l.receipts[0]
		l.receipts = l.receipts[1:]
	} else {
		receipt = attest.Receipt{
			EntityKey:       fmt.Sprintf("ek-%d", len(l.writes)+1),
			ExpirationBlock: new(big.Int).Add(l.height, new(big.Int).SetUint64(btl)),
		}
	}
	receipt.ExpirationBlock = new(big.Int).Set(receipt.ExpirationBlock)

	stored := append([]byte(nil), data...)
	l.writes = append(l.writes, LedgerWrite{Data: stored, BTL: btl, Annotations: annotations})
	l.entities[receipt.EntityKey] = &attest.LedgerEntity{
		Key:             receipt.EntityKey,
		Data:            stored,
		Annotations:     annotations,
		CreatedAtBlock:  new(big.Int).Set(l.height),
		ExpirationBlock: new(big.Int).Set(receipt.ExpirationBlock),
	}
	return &receipt, nil
}

func (l *StubLedger) CurrentHeight(ctx context.Context) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.height), nil
}

func (l *StubLedger) GetEntity(ctx context.Context, key string) (*attest.LedgerEntity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entity, ok := l.entities[key]
	if !ok {
		return nil, nil
	}
	return entity, nil
}
