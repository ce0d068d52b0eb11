package attest_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"attest-go/internal/attest"
	"attest-go/internal/database/sqlc"
	"attest-go/internal/testutil"
)

func TestAttestor_CreateAttestation(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the ledger then records the receipt", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(100, receipt("ek1", 500)))
		user := h.registerWallet(t, walletA)

		result, err := h.attestor.CreateAttestation(ctx, profileRequest(user.ID))
		if err != nil {
			t.Fatalf("CreateAttestation() error = %v", err)
		}

		rec := result.Attestation
		if rec.EntityKey != "ek1" || rec.ExpirationBlock.Int64() != 500 {
			t.Errorf("record = (%s, %s), want (ek1, 500)", rec.EntityKey, rec.ExpirationBlock)
		}
		if rec.Status != attest.StatusActive || rec.Expired {
			t.Errorf("Status = %s, Expired = %v, want active and not expired", rec.Status, rec.Expired)
		}
		wantHash, _ := attest.Hash(json.RawMessage(`{"total_karma":100,"id":"u1"}`))
		if rec.DataHash != wantHash {
			t.Errorf("DataHash = %s, want %s", rec.DataHash, wantHash)
		}
		if string(rec.ProcessedData) != `{"totalKarma":100}` {
			t.Errorf("ProcessedData = %s", rec.ProcessedData)
		}
		if !rec.IssuedAt.Equal(h.clock.Now()) {
			t.Errorf("IssuedAt = %v, want %v", rec.IssuedAt, h.clock.Now())
		}
	})

	t.Run("ledger payload carries the hash and not the raw data", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(100))
		user := h.registerWallet(t, walletA)

		result, err := h.attestor.CreateAttestation(ctx, profileRequest(user.ID))
		if err != nil {
			t.Fatalf("CreateAttestation() error = %v", err)
		}

		writes := h.ledger.Writes()
		if len(writes) != 1 {
			t.Fatalf("ledger writes = %d, want 1", len(writes))
		}
		w := writes[0]
		if w.BTL != 400 {
			t.Errorf("BTL = %d, want 400", w.BTL)
		}
		if strings.Contains(string(w.Data), "total_karma") {
			t.Errorf("ledger data contains raw payload: %s", w.Data)
		}
		annotations := map[string]string{
			"owner":             "user:" + user.ID,
			"platform":          "reddit",
			"verification_type": "profile",
			"data_hash":         result.Attestation.DataHash,
		}
		for key, want := range annotations {
			if got := w.Annotations.String(key); got != want {
				t.Errorf("annotation %s = %q, want %q", key, got, want)
			}
		}
		if len(w.Annotations.Numerics) != 2 || w.Annotations.Numerics[1].Value != 100 {
			t.Errorf("numeric annotations = %+v, want timestamp and block_height 100", w.Annotations.Numerics)
		}
	})

	t.Run("ledger failure leaves no row", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(100))
		user := h.registerWallet(t, walletA)
		h.ledger.FailNext(-1, nil)

		result, err := h.attestor.CreateAttestation(ctx, profileRequest(user.ID))
		if !errors.Is(err, attest.ErrLedgerUnavailable) {
			t.Fatalf("CreateAttestation() error = %v, want ErrLedgerUnavailable", err)
		}
		if result != nil {
			t.Errorf("result = %+v, want nil", result)
		}
		if n := countAttestations(t, h.db); n != 0 {
			t.Errorf("attestation rows = %d, want 0", n)
		}
	})

	t.Run("retries transient ledger failures", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(100, receipt("ek1", 500)))
		user := h.registerWallet(t, walletA)
		h.ledger.FailNext(2, nil)

		result, err := h.attestor.CreateAttestation(ctx, profileRequest(user.ID))
		if err != nil {
			t.Fatalf("CreateAttestation() error = %v", err)
		}
		if h.ledger.Calls() != 3 {
			t.Errorf("ledger calls = %d, want 3", h.ledger.Calls())
		}
		if result.Receipt.EntityKey != "ek1" {
			t.Errorf("EntityKey = %s, want ek1", result.Receipt.EntityKey)
		}
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(100))
		user := h.registerWallet(t, walletA)
		h.ledger.FailNext(3, nil)

		if _, err := h.attestor.CreateAttestation(ctx, profileRequest(user.ID)); !errors.Is(err, attest.ErrLedgerUnavailable) {
			t.Fatalf("CreateAttestation() error = %v, want ErrLedgerUnavailable", err)
		}
		if h.ledger.Calls() != 3 {
			t.Errorf("ledger calls = %d, want 3", h.ledger.Calls())
		}
	})

	t.Run("does not retry config errors", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(100))
		user := h.registerWallet(t, walletA)
		h.ledger.FailNext(-1, attest.NewError(attest.KindConfig, "sign", "no signing key", nil))

		if _, err := h.attestor.CreateAttestation(ctx, profileRequest(user.ID)); !errors.Is(err, attest.ErrConfig) {
			t.Fatalf("CreateAttestation() error = %v, want ErrConfig", err)
		}
		if h.ledger.Calls() != 1 {
			t.Errorf("ledger calls = %d, want 1", h.ledger.Calls())
		}
	})

	t.Run("persistence failure keeps the entity key", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(100, receipt("ek1", 500)))

		// No such user, so the foreign key rejects the row.
		result, err := h.attestor.CreateAttestation(ctx, profileRequest("missing-user"))
		if !errors.Is(err, attest.ErrPersistence) {
			t.Fatalf("CreateAttestation() error = %v, want ErrPersistence", err)
		}
		if got := attest.EntityKeyOf(err); got != "ek1" {
			t.Errorf("EntityKeyOf() = %q, want ek1", got)
		}
		if result == nil || result.Receipt == nil || result.Receipt.EntityKey != "ek1" {
			t.Fatalf("result receipt = %+v, want ek1", result)
		}
		if result.Attestation != nil {
			t.Error("Attestation set despite persistence failure")
		}
	})

	t.Run("rejects invalid requests before touching the ledger", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(100))
		user := h.registerWallet(t, walletA)

		tests := []struct {
			name   string
			mutate func(*attest.AttestationRequest)
		}{
			{"missing user", func(r *attest.AttestationRequest) { r.UserID = "" }},
			{"missing platform", func(r *attest.AttestationRequest) { r.Platform = "" }},
			{"unknown type", func(r *attest.AttestationRequest) { r.Type = "karma" }},
			{"missing raw data", func(r *attest.AttestationRequest) { r.RawData = nil }},
			{"invalid raw json", func(r *attest.AttestationRequest) { r.RawData = json.RawMessage(`{`) }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := profileRequest(user.ID)
				tt.mutate(&req)
				if _, err := h.attestor.CreateAttestation(ctx, req); !errors.Is(err, attest.ErrInvalidArgument) {
					t.Errorf("CreateAttestation() error = %v, want ErrInvalidArgument", err)
				}
			})
		}
		if h.ledger.Calls() != 0 {
			t.Errorf("ledger calls = %d, want 0", h.ledger.Calls())
		}
	})

	t.Run("duplicate requests create separate rows", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(100))
		user := h.registerWallet(t, walletA)

		for i := 0; i < 2; i++ {
			if _, err := h.attestor.CreateAttestation(ctx, profileRequest(user.ID)); err != nil {
				t.Fatalf("CreateAttestation() error = %v", err)
			}
		}
		if n := countAttestations(t, h.db); n != 2 {
			t.Errorf("attestation rows = %d, want 2", n)
		}
	})
}

func TestAttestor_RecordReceipt(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testutil.NewStubLedger(100))
	user := h.registerWallet(t, walletA)
	r := receipt("ek-orphan", 900)

	first, err := h.attestor.RecordReceipt(ctx, &r, profileRequest(user.ID))
	if err != nil {
		t.Fatalf("RecordReceipt() error = %v", err)
	}
	second, err := h.attestor.RecordReceipt(ctx, &r, profileRequest(user.ID))
	if err != nil {
		t.Fatalf("second RecordReceipt() error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("second record ID = %s, want %s", second.ID, first.ID)
	}
	if n := countAttestations(t, h.db); n != 1 {
		t.Errorf("attestation rows = %d, want 1", n)
	}
	if h.ledger.Calls() != 0 {
		t.Errorf("ledger calls = %d, want 0", h.ledger.Calls())
	}

	if _, err := h.attestor.RecordReceipt(ctx, &attest.Receipt{}, profileRequest(user.ID)); !errors.Is(err, attest.ErrInvalidArgument) {
		t.Errorf("RecordReceipt(empty) error = %v, want ErrInvalidArgument", err)
	}
}

func TestAttestor_GetAttestations(t *testing.T) {
	ctx := context.Background()
	yes, no := true, false

	setup := func(t *testing.T) (*harness, string) {
		t.Helper()
		h := newHarness(t, testutil.NewStubLedger(100, receipt("ek1", 500), receipt("ek2", 800)))
		user := h.registerWallet(t, walletA)
		for i := 0; i < 2; i++ {
			if _, err := h.attestor.CreateAttestation(ctx, profileRequest(user.ID)); err != nil {
				t.Fatalf("CreateAttestation() error = %v", err)
			}
		}
		h.ledger.SetHeight(600)
		return h, user.ID
	}

	t.Run("evaluates expiry at the current height", func(t *testing.T) {
		h, userID := setup(t)

		records, err := h.attestor.GetAttestations(ctx, attest.AttestationFilter{UserID: userID})
		if err != nil {
			t.Fatalf("GetAttestations() error = %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("len(records) = %d, want 2", len(records))
		}
		// Newest first.
		if records[0].EntityKey != "ek2" || records[0].Expired || records[0].Status != attest.StatusActive {
			t.Errorf("records[0] = %s expired=%v status=%s, want ek2 active", records[0].EntityKey, records[0].Expired, records[0].Status)
		}
		if records[1].EntityKey != "ek1" || !records[1].Expired || records[1].Status != attest.StatusExpired {
			t.Errorf("records[1] = %s expired=%v status=%s, want ek1 expired", records[1].EntityKey, records[1].Expired, records[1].Status)
		}
		if records[1].StoredStatus != attest.StatusActive {
			t.Errorf("StoredStatus = %s, want active", records[1].StoredStatus)
		}
	})

	t.Run("expiry is inclusive of the expiration block", func(t *testing.T) {
		h, userID := setup(t)
		h.ledger.SetHeight(500)

		records, err := h.attestor.GetAttestations(ctx, attest.AttestationFilter{UserID: userID, IsExpired: &yes})
		if err != nil {
			t.Fatalf("GetAttestations() error = %v", err)
		}
		if len(records) != 1 || records[0].EntityKey != "ek1" {
			t.Errorf("expired records = %v, want [ek1]", keys(records))
		}
	})

	tests := []struct {
		name   string
		filter attest.AttestationFilter
		want   []string
	}{
		{"expired only", attest.AttestationFilter{IsExpired: &yes}, []string{"ek1"}},
		{"unexpired only", attest.AttestationFilter{IsExpired: &no}, []string{"ek2"}},
		{"status active", attest.AttestationFilter{Status: attest.StatusActive}, []string{"ek2"}},
		{"status expired", attest.AttestationFilter{Status: attest.StatusExpired}, []string{"ek1"}},
		{"status revoked", attest.AttestationFilter{Status: attest.StatusRevoked}, nil},
		{"by entity key", attest.AttestationFilter{EntityKey: "ek1"}, []string{"ek1"}},
		{"by platform", attest.AttestationFilter{Platform: "github"}, nil},
		{"by type", attest.AttestationFilter{AttestationType: attest.TypeProfile}, []string{"ek2", "ek1"}},
		{"limit", attest.AttestationFilter{Limit: 1}, []string{"ek2"}},
		{"limit applies after status filter", attest.AttestationFilter{Status: attest.StatusExpired, Limit: 1}, []string{"ek1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setup(t)
			records, err := h.attestor.GetAttestations(ctx, tt.filter)
			if err != nil {
				t.Fatalf("GetAttestations() error = %v", err)
			}
			if got := keys(records); strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("GetAttestations() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("rejects unknown filters", func(t *testing.T) {
		h, _ := setup(t)
		if _, err := h.attestor.GetAttestations(ctx, attest.AttestationFilter{AttestationType: "nope"}); !errors.Is(err, attest.ErrInvalidArgument) {
			t.Errorf("unknown type error = %v, want ErrInvalidArgument", err)
		}
		if _, err := h.attestor.GetAttestations(ctx, attest.AttestationFilter{Status: "pending"}); !errors.Is(err, attest.ErrInvalidArgument) {
			t.Errorf("unknown status error = %v, want ErrInvalidArgument", err)
		}
	})
}

func keys(records []*attest.AttestationRecord) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.EntityKey)
	}
	return out
}

func TestAttestor_ExpireAttestations(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testutil.NewStubLedger(100, receipt("ek1", 500), receipt("ek2", 800)))
	user := h.registerWallet(t, walletA)
	for i := 0; i < 2; i++ {
		if _, err := h.attestor.CreateAttestation(ctx, profileRequest(user.ID)); err != nil {
			t.Fatalf("CreateAttestation() error = %v", err)
		}
	}

	n, err := h.attestor.ExpireAttestations(ctx)
	if err != nil || n != 0 {
		t.Fatalf("ExpireAttestations() at 100 = (%d, %v), want (0, nil)", n, err)
	}

	h.ledger.SetHeight(600)
	n, err = h.attestor.ExpireAttestations(ctx)
	if err != nil || n != 1 {
		t.Fatalf("ExpireAttestations() at 600 = (%d, %v), want (1, nil)", n, err)
	}

	row, err := h.db.FindAttestationByEntityKey(ctx, "ek1")
	if err != nil {
		t.Fatalf("FindAttestationByEntityKey() error = %v", err)
	}
	if row.Status != string(attest.StatusExpired) {
		t.Errorf("stored status = %s, want expired", row.Status)
	}

	n, _ = h.attestor.ExpireAttestations(ctx)
	if n != 0 {
		t.Errorf("second ExpireAttestations() = %d, want 0", n)
	}
}

// revokeOnList revokes every active row right after it is listed, as a
// revoke request racing the expiry sweep would.
type revokeOnList struct {
	attest.Database
}

func (d revokeOnList) ListAttestationsByStatus(ctx context.Context, status attest.Status) ([]*sqlc.Attestation, error) {
	rows, err := d.Database.ListAttestationsByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if _, err := d.Database.UpdateAttestationStatus(ctx, row.EntityKey, attest.StatusRevoked); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func TestAttestor_ExpireAttestations_ConcurrentRevoke(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testutil.NewStubLedger(100, receipt("ek1", 500)))
	user := h.registerWallet(t, walletA)
	if _, err := h.attestor.CreateAttestation(ctx, profileRequest(user.ID)); err != nil {
		t.Fatalf("CreateAttestation() error = %v", err)
	}

	writer := attest.NewLedgerWriter(h.ledger, h.clock, 400, time.Second)
	attestor := attest.NewAttestor(revokeOnList{h.db}, writer, attest.NewNopLogger(), h.clock, attest.RetryPolicy{MaxAttempts: 1})

	h.ledger.SetHeight(600)
	n, err := attestor.ExpireAttestations(ctx)
	if err != nil {
		t.Fatalf("ExpireAttestations() error = %v", err)
	}
	if n != 0 {
		t.Errorf("ExpireAttestations() = %d, want 0", n)
	}

	row, err := h.db.FindAttestationByEntityKey(ctx, "ek1")
	if err != nil {
		t.Fatalf("FindAttestationByEntityKey() error = %v", err)
	}
	if row.Status != string(attest.StatusRevoked) {
		t.Errorf("stored status = %s, want revoked", row.Status)
	}
}

func TestAttestor_RevokeAttestation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testutil.NewStubLedger(100, receipt("ek1", 500)))
	owner := h.registerWallet(t, walletA)
	other := h.registerWallet(t, walletB)
	if _, err := h.attestor.CreateAttestation(ctx, profileRequest(owner.ID)); err != nil {
		t.Fatalf("CreateAttestation() error = %v", err)
	}

	t.Run("other users cannot see it", func(t *testing.T) {
		if _, err := h.attestor.RevokeAttestation(ctx, "ek1", other.ID); !errors.Is(err, attest.ErrNotFound) {
			t.Errorf("RevokeAttestation() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		if _, err := h.attestor.RevokeAttestation(ctx, "ek-missing", ""); !errors.Is(err, attest.ErrNotFound) {
			t.Errorf("RevokeAttestation() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("owner revokes", func(t *testing.T) {
		rec, err := h.attestor.RevokeAttestation(ctx, "ek1", owner.ID)
		if err != nil {
			t.Fatalf("RevokeAttestation() error = %v", err)
		}
		if rec.Status != attest.StatusRevoked {
			t.Errorf("Status = %s, want revoked", rec.Status)
		}
	})

	t.Run("revoking twice is a no-op", func(t *testing.T) {
		rec, err := h.attestor.RevokeAttestation(ctx, "ek1", "")
		if err != nil {
			t.Fatalf("RevokeAttestation() error = %v", err)
		}
		if rec.Status != attest.StatusRevoked {
			t.Errorf("Status = %s, want revoked", rec.Status)
		}
	})

	t.Run("revoked wins over expired", func(t *testing.T) {
		h.ledger.SetHeight(600)
		records, err := h.attestor.GetAttestations(ctx, attest.AttestationFilter{EntityKey: "ek1"})
		if err != nil {
			t.Fatalf("GetAttestations() error = %v", err)
		}
		if len(records) != 1 || records[0].Status != attest.StatusRevoked || !records[0].Expired {
			t.Errorf("record = %+v, want revoked and expired", records)
		}
	})
}

func TestAttestor_VerifyAttestation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testutil.NewStubLedger(100, receipt("ek1", 500)))
	user := h.registerWallet(t, walletA)
	if _, err := h.attestor.CreateAttestation(ctx, profileRequest(user.ID)); err != nil {
		t.Fatalf("CreateAttestation() error = %v", err)
	}

	v, err := h.attestor.VerifyAttestation(ctx, "ek1")
	if err != nil {
		t.Fatalf("VerifyAttestation() error = %v", err)
	}
	if !v.HashValid || !v.OnLedger || !v.LedgerMatch {
		t.Errorf("Verification = %+v, want all checks true", v)
	}

	if _, err := h.attestor.VerifyAttestation(ctx, "ek-missing"); !errors.Is(err, attest.ErrNotFound) {
		t.Errorf("VerifyAttestation(missing) error = %v, want ErrNotFound", err)
	}
}

func TestAttestor_VerifyIntegrity(t *testing.T) {
	h := newHarness(t, testutil.NewStubLedger(100))
	raw := map[string]any{"id": "u1", "total_karma": 100}
	hash, _ := attest.Hash(raw)

	if !h.attestor.VerifyIntegrity(raw, hash) {
		t.Error("VerifyIntegrity() = false for matching hash")
	}
	if h.attestor.VerifyIntegrity(map[string]any{"id": "u2"}, hash) {
		t.Error("VerifyIntegrity() = true for different payload")
	}
}

func TestAttestor_NoLedger(t *testing.T) {
	clock := testutil.FixedClock()
	db := testutil.NewTestDatabase(t, clock)
	writer := attest.NewLedgerWriter(nil, clock, 400, time.Second)
	attestor := attest.NewAttestor(db, writer, attest.NewNopLogger(), clock, attest.RetryPolicy{MaxAttempts: 3})
	linker := attest.NewLinker(db, attest.NewNopLogger())
	user, err := linker.RegisterWallet(context.Background(), walletA)
	if err != nil {
		t.Fatalf("RegisterWallet() error = %v", err)
	}

	if _, err := attestor.CreateAttestation(context.Background(), profileRequest(user.ID)); !errors.Is(err, attest.ErrConfig) {
		t.Errorf("CreateAttestation() error = %v, want ErrConfig", err)
	}
}
