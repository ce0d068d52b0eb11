package attest_test

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"attest-go/internal/attest"
	"attest-go/internal/database/sqlc"
	"attest-go/internal/testutil"
)

const (
	walletA = "0x1111111111111111111111111111111111111111"
	walletB = "0x2222222222222222222222222222222222222222"
	walletC = "0x3333333333333333333333333333333333333333"
)

type harness struct {
	clock    *testutil.StubClock
	db       attest.Database
	ledger   *testutil.StubLedger
	attestor *attest.Attestor
	linker   *attest.Linker
	reddit   *testutil.FakeRedditClient
	github   *testutil.FakeGitHubClient
	prover   *testutil.FakeProver
	svc      *attest.Service
}

func newHarness(t *testing.T, ledger *testutil.StubLedger) *harness {
	t.Helper()
	clock := testutil.FixedClock()
	db := testutil.NewTestDatabase(t, clock)
	logger := attest.NewNopLogger()

	writer := attest.NewLedgerWriter(ledger, clock, 400, time.Second)
	attestor := attest.NewAttestor(db, writer, logger, clock, attest.RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond})
	linker := attest.NewLinker(db, logger)
	reddit := testutil.NewFakeRedditClient()
	github := testutil.NewFakeGitHubClient()
	prover := &testutil.FakeProver{}

	return &harness{
		clock:    clock,
		db:       db,
		ledger:   ledger,
		attestor: attestor,
		linker:   linker,
		reddit:   reddit,
		github:   github,
		prover:   prover,
		svc:      attest.NewService(db, linker, attestor, reddit, github, prover, logger, clock),
	}
}

func receipt(key string, expiration int64) attest.Receipt {
	return attest.Receipt{EntityKey: key, ExpirationBlock: big.NewInt(expiration)}
}

func (h *harness) registerWallet(t *testing.T, address string) *sqlc.User {
	t.Helper()
	user, err := h.linker.RegisterWallet(context.Background(), address)
	if err != nil {
		t.Fatalf("RegisterWallet() error = %v", err)
	}
	return user
}

// addRedditAccount makes code exchange to a token that returns a Reddit
// profile with the given id and karma, created 740 days before now.
func (h *harness) addRedditAccount(code, token, redditID, name string, karma int64) {
	created := h.clock.Now().Add(-740 * 24 * time.Hour).Unix()
	raw, _ := json.Marshal(map[string]any{
		"id":          redditID,
		"name":        name,
		"total_karma": karma,
		"created_utc": created,
	})
	h.reddit.Tokens[code] = token
	h.reddit.Profiles[token] = &attest.RedditProfile{
		ID:               redditID,
		Name:             name,
		TotalKarma:       karma,
		CommentKarma:     karma / 2,
		LinkKarma:        karma - karma/2,
		CreatedUTC:       created,
		HasVerifiedEmail: true,
		Raw:              raw,
	}
}

func (h *harness) addGitHubAccount(code, token, githubID, login string, publicRepos int64) {
	created := h.clock.Now().Add(-400 * 24 * time.Hour)
	raw, _ := json.Marshal(map[string]any{
		"id":           githubID,
		"login":        login,
		"public_repos": publicRepos,
		"created_at":   created.Format(time.RFC3339),
	})
	h.github.Tokens[code] = token
	h.github.Profiles[token] = &attest.GitHubProfile{
		ID:          githubID,
		Login:       login,
		Name:        "Test " + login,
		Followers:   3,
		Following:   4,
		PublicRepos: publicRepos,
		CreatedAt:   created,
		Raw:         raw,
	}
}

func profileRequest(userID string) attest.AttestationRequest {
	return attest.AttestationRequest{
		Platform:      attest.PlatformReddit,
		Type:          attest.TypeProfile,
		UserID:        userID,
		RawData:       json.RawMessage(`{"id":"u1","total_karma":100}`),
		ProcessedData: map[string]any{"totalKarma": 100},
		APIEndpoint:   "https://oauth.reddit.test/api/v1/me",
	}
}

func countAttestations(t *testing.T, db attest.Database) int {
	t.Helper()
	rows, err := db.ListAttestations(context.Background(), attest.AttestationQuery{})
	if err != nil {
		t.Fatalf("ListAttestations() error = %v", err)
	}
	return len(rows)
}
