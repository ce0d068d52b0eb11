package attest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"attest-go/internal/attest"
	"attest-go/internal/testutil"
)

func TestValidWalletAddress(t *testing.T) {
	tests := []struct {
		address string
		want    bool
	}{
		{walletA, true},
		{"0xABCDEFabcdef0123456789ABCDEFabcdef012345", true},
		{"1111111111111111111111111111111111111111", false},
		{"0x111111111111111111111111111111111111111", false},
		{"0x11111111111111111111111111111111111111111", false},
		{"0xg111111111111111111111111111111111111111", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := attest.ValidWalletAddress(tt.address); got != tt.want {
			t.Errorf("ValidWalletAddress(%q) = %v, want %v", tt.address, got, tt.want)
		}
	}
}

func redditSnapshot(id, username string, karma int64) attest.RedditSnapshot {
	return attest.RedditSnapshot{
		RedditID:       id,
		Username:       username,
		TotalKarma:     karma,
		AccountAge:     "2 years",
		RawAPIResponse: `{"id":"` + id + `"}`,
		ProofHash:      "hash-" + id,
		ProofTimestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestLinker_Wallets(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testutil.NewStubLedger(0))

	t.Run("register stores the lowercase address", func(t *testing.T) {
		user, err := h.linker.RegisterWallet(ctx, "0xABCDEFabcdef0123456789ABCDEFabcdef012345")
		if err != nil {
			t.Fatalf("RegisterWallet() error = %v", err)
		}
		if user.WalletAddress.String != "0xabcdefabcdef0123456789abcdefabcdef012345" {
			t.Errorf("WalletAddress = %s", user.WalletAddress.String)
		}
	})

	t.Run("register is idempotent", func(t *testing.T) {
		first := h.registerWallet(t, walletA)
		second := h.registerWallet(t, walletA)
		if first.ID != second.ID {
			t.Errorf("second RegisterWallet() ID = %s, want %s", second.ID, first.ID)
		}
	})

	t.Run("check finds registered wallets in any case", func(t *testing.T) {
		user, err := h.linker.CheckWallet(ctx, "0xABCDEFABCDEF0123456789ABCDEFABCDEF012345")
		if err != nil {
			t.Fatalf("CheckWallet() error = %v", err)
		}
		if user == nil {
			t.Fatal("CheckWallet() = nil, want user")
		}
	})

	t.Run("check returns nil for unknown wallets", func(t *testing.T) {
		user, err := h.linker.CheckWallet(ctx, walletC)
		if err != nil {
			t.Fatalf("CheckWallet() error = %v", err)
		}
		if user != nil {
			t.Errorf("CheckWallet() = %+v, want nil", user)
		}
	})

	t.Run("rejects malformed addresses", func(t *testing.T) {
		if _, err := h.linker.RegisterWallet(ctx, "0x123"); !errors.Is(err, attest.ErrInvalidArgument) {
			t.Errorf("RegisterWallet() error = %v, want ErrInvalidArgument", err)
		}
		if _, err := h.linker.CheckWallet(ctx, "nope"); !errors.Is(err, attest.ErrInvalidArgument) {
			t.Errorf("CheckWallet() error = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestLinker_LinkReddit(t *testing.T) {
	ctx := context.Background()

	t.Run("links to an existing user", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(0))
		user := h.registerWallet(t, walletA)

		result, err := h.linker.LinkReddit(ctx, user.ID, redditSnapshot("u1", "alice", 100))
		if err != nil {
			t.Fatalf("LinkReddit() error = %v", err)
		}
		if result.User.ID != user.ID || result.User.RedditID.String != "u1" {
			t.Errorf("User = %+v, want %s linked to u1", result.User, user.ID)
		}
		if result.Reddit.TotalKarma != 100 || result.Reddit.UserID != user.ID {
			t.Errorf("Reddit = %+v", result.Reddit)
		}
	})

	t.Run("relinking refreshes the snapshot", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(0))
		user := h.registerWallet(t, walletA)

		first, err := h.linker.LinkReddit(ctx, user.ID, redditSnapshot("u1", "alice", 100))
		if err != nil {
			t.Fatalf("LinkReddit() error = %v", err)
		}
		second, err := h.linker.LinkReddit(ctx, user.ID, redditSnapshot("u1", "alice", 150))
		if err != nil {
			t.Fatalf("second LinkReddit() error = %v", err)
		}
		if second.Reddit.ID != first.Reddit.ID {
			t.Errorf("snapshot ID changed: %s -> %s", first.Reddit.ID, second.Reddit.ID)
		}
		if second.Reddit.TotalKarma != 150 {
			t.Errorf("TotalKarma = %d, want 150", second.Reddit.TotalKarma)
		}
		profiles, err := h.db.ListRedditProfiles(ctx)
		if err != nil {
			t.Fatalf("ListRedditProfiles() error = %v", err)
		}
		if len(profiles) != 1 {
			t.Errorf("reddit profiles = %d, want 1", len(profiles))
		}
	})

	t.Run("an identity belongs to one user", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(0))
		a := h.registerWallet(t, walletA)
		b := h.registerWallet(t, walletB)

		if _, err := h.linker.LinkReddit(ctx, a.ID, redditSnapshot("u1", "alice", 100)); err != nil {
			t.Fatalf("LinkReddit(a) error = %v", err)
		}
		_, err := h.linker.LinkReddit(ctx, b.ID, redditSnapshot("u1", "alice", 999))
		if !errors.Is(err, attest.ErrConflict) {
			t.Fatalf("LinkReddit(b) error = %v, want ErrConflict", err)
		}

		gotA, _ := h.db.FindUserByID(ctx, a.ID)
		gotB, _ := h.db.FindUserByID(ctx, b.ID)
		if gotA.RedditID.String != "u1" {
			t.Errorf("user a RedditID = %q, want u1", gotA.RedditID.String)
		}
		if gotB.RedditID.Valid {
			t.Errorf("user b RedditID = %q, want none", gotB.RedditID.String)
		}
		profile, _ := h.db.FindRedditProfileByUserID(ctx, a.ID)
		if profile.TotalKarma != 100 {
			t.Errorf("snapshot TotalKarma = %d, want 100", profile.TotalKarma)
		}
	})

	t.Run("without a user creates one keyed by the reddit id", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(0))

		first, err := h.linker.LinkReddit(ctx, "", redditSnapshot("u1", "alice", 100))
		if err != nil {
			t.Fatalf("LinkReddit() error = %v", err)
		}
		second, err := h.linker.LinkReddit(ctx, "", redditSnapshot("u1", "alice", 120))
		if err != nil {
			t.Fatalf("second LinkReddit() error = %v", err)
		}
		if first.User.ID != second.User.ID {
			t.Errorf("user ID changed: %s -> %s", first.User.ID, second.User.ID)
		}
		if first.User.WalletAddress.Valid {
			t.Error("legacy user has a wallet address")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(0))
		if _, err := h.linker.LinkReddit(ctx, "missing", redditSnapshot("u1", "alice", 1)); !errors.Is(err, attest.ErrNotFound) {
			t.Errorf("LinkReddit() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("requires a reddit id", func(t *testing.T) {
		h := newHarness(t, testutil.NewStubLedger(0))
		if _, err := h.linker.LinkReddit(ctx, "", redditSnapshot("", "alice", 1)); !errors.Is(err, attest.ErrInvalidArgument) {
			t.Errorf("LinkReddit() error = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestLinker_LinkGitHub(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testutil.NewStubLedger(0))
	a := h.registerWallet(t, walletA)
	b := h.registerWallet(t, walletB)
	snapshot := attest.GitHubSnapshot{GitHubID: "g1", Username: "octo", PublicRepos: 7, ProofTimestamp: h.clock.Now()}

	result, err := h.linker.LinkGitHub(ctx, a.ID, snapshot)
	if err != nil {
		t.Fatalf("LinkGitHub() error = %v", err)
	}
	if result.User.GithubUsername.String != "octo" || result.GitHub.PublicRepos != 7 {
		t.Errorf("LinkGitHub() = %+v", result)
	}

	if _, err := h.linker.LinkGitHub(ctx, b.ID, snapshot); !errors.Is(err, attest.ErrConflict) {
		t.Errorf("LinkGitHub(b) error = %v, want ErrConflict", err)
	}
}

func TestLinker_Unlink(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testutil.NewStubLedger(0))
	a := h.registerWallet(t, walletA)
	b := h.registerWallet(t, walletB)
	if _, err := h.linker.LinkReddit(ctx, a.ID, redditSnapshot("u1", "alice", 100)); err != nil {
		t.Fatalf("LinkReddit() error = %v", err)
	}

	user, err := h.linker.Unlink(ctx, a.ID, attest.PlatformReddit)
	if err != nil {
		t.Fatalf("Unlink() error = %v", err)
	}
	if user.RedditID.Valid || user.RedditUsername.Valid {
		t.Errorf("user still linked: %+v", user)
	}
	if profile, _ := h.db.FindRedditProfileByUserID(ctx, a.ID); profile == nil {
		t.Error("snapshot was deleted on unlink")
	}

	// Once released, the identity can move to another user.
	if _, err := h.linker.LinkReddit(ctx, b.ID, redditSnapshot("u1", "alice", 100)); err != nil {
		t.Errorf("LinkReddit(b) after unlink error = %v", err)
	}

	if _, err := h.linker.Unlink(ctx, a.ID, attest.PlatformZkTLS); !errors.Is(err, attest.ErrInvalidArgument) {
		t.Errorf("Unlink(zktls) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := h.linker.Unlink(ctx, "missing", attest.PlatformGitHub); !errors.Is(err, attest.ErrNotFound) {
		t.Errorf("Unlink(missing) error = %v, want ErrNotFound", err)
	}
}
