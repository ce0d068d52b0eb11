package ledger

import (
	"context"
	"errors"
	"testing"

	"attest-go/internal/attest"
	"attest-go/internal/testutil"
)

func newTestMemoryLedger(t *testing.T, height uint64) *MemoryLedger {
	t.Helper()
	signer, err := NewSigner(testKey)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}
	return NewMemoryLedger(signer, height, testutil.FixedClock(), testutil.NewStubIDGenerator())
}

func TestMemoryLedger_CreateEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("stores entity until height plus btl", func(t *testing.T) {
		l := newTestMemoryLedger(t, 100)

		receipt, err := l.CreateEntity(ctx, []byte("data"), 400, testAnnotations())
		if err != nil {
			t.Fatalf("CreateEntity() error = %v", err)
		}
		if receipt.ExpirationBlock.Int64() != 500 {
			t.Errorf("ExpirationBlock = %s, want 500", receipt.ExpirationBlock)
		}

		entity, err := l.GetEntity(ctx, receipt.EntityKey)
		if err != nil {
			t.Fatalf("GetEntity() error = %v", err)
		}
		if string(entity.Data) != "data" || entity.CreatedAtBlock.Int64() != 100 {
			t.Errorf("entity = %+v", entity)
		}
		if entity.Annotations.String("data_hash") != "abc" {
			t.Errorf("annotations = %+v", entity.Annotations)
		}
	})

	t.Run("identical writes get distinct keys", func(t *testing.T) {
		l := newTestMemoryLedger(t, 0)
		a, _ := l.CreateEntity(ctx, []byte("same"), 10, testAnnotations())
		b, _ := l.CreateEntity(ctx, []byte("same"), 10, testAnnotations())
		if a.EntityKey == b.EntityKey {
			t.Error("identical writes share a key")
		}
		if l.Len() != 2 {
			t.Errorf("Len() = %d, want 2", l.Len())
		}
	})

	t.Run("requires a signer", func(t *testing.T) {
		l := NewMemoryLedger(nil, 0, testutil.FixedClock(), testutil.NewStubIDGenerator())
		if _, err := l.CreateEntity(ctx, []byte("data"), 10, attest.Annotations{}); !errors.Is(err, attest.ErrConfig) {
			t.Errorf("CreateEntity() error = %v, want ErrConfig", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		l := newTestMemoryLedger(t, 0)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := l.CreateEntity(cctx, []byte("data"), 10, attest.Annotations{}); !errors.Is(err, attest.ErrLedgerUnavailable) {
			t.Errorf("CreateEntity() error = %v, want ErrLedgerUnavailable", err)
		}
	})
}

func TestMemoryLedger_Height(t *testing.T) {
	ctx := context.Background()
	l := newTestMemoryLedger(t, 100)

	l.Advance(50)
	if h, _ := l.CurrentHeight(ctx); h.Int64() != 150 {
		t.Errorf("CurrentHeight() after Advance = %s, want 150", h)
	}
	l.SetHeight(600)
	if h, _ := l.CurrentHeight(ctx); h.Int64() != 600 {
		t.Errorf("CurrentHeight() after SetHeight = %s, want 600", h)
	}

	// Callers get a copy.
	h, _ := l.CurrentHeight(ctx)
	h.SetInt64(1)
	if again, _ := l.CurrentHeight(ctx); again.Int64() != 600 {
		t.Errorf("CurrentHeight() = %s after mutating a returned value", again)
	}
}

func TestMemoryLedger_GetEntity_Missing(t *testing.T) {
	l := newTestMemoryLedger(t, 0)
	entity, err := l.GetEntity(context.Background(), "0xmissing")
	if err != nil || entity != nil {
		t.Errorf("GetEntity() = (%v, %v), want (nil, nil)", entity, err)
	}
}
