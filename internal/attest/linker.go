package attest

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"attest-go/internal/database/sqlc"
)

var walletAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidWalletAddress reports whether address is a 0x-prefixed 20-byte hex
// address. Case is not checked.
func ValidWalletAddress(address string) bool {
	return walletAddressPattern.MatchString(address)
}

// LinkResult is the state of a user after a provider identity was linked.
type LinkResult struct {
	User   *sqlc.User
	Reddit *sqlc.RedditProfile
	GitHub *sqlc.GithubProfile
}

// Linker attaches provider identities to users. A provider identity belongs
// to at most one user; linking it to a second user is a conflict and leaves
// both users unchanged.
type Linker struct {
	database Database
	logger   Logger
}

// NewLinker creates a Linker.
func NewLinker(database Database, logger Logger) *Linker {
	return &Linker{database: database, logger: WithFields(logger, "component", "linker")}
}

// LinkReddit links snapshot's Reddit identity to userID and stores the
// snapshot. An empty userID creates or updates a user keyed by the Reddit id.
func (l *Linker) LinkReddit(ctx context.Context, userID string, snapshot RedditSnapshot) (*LinkResult, error) {
	if snapshot.RedditID == "" {
		return nil, NewError(KindInvalidArgument, "link reddit", "reddit id is required", nil)
	}
	user, profile, err := l.database.LinkReddit(ctx, userID, snapshot)
	if err != nil {
		return nil, linkError("link reddit", err)
	}
	l.logger.Info("reddit linked", "user_id", user.ID, "reddit_id", snapshot.RedditID, "username", snapshot.Username)
	return &LinkResult{User: user, Reddit: profile}, nil
}

// LinkGitHub links snapshot's GitHub identity to userID and stores the
// snapshot. An empty userID creates or updates a user keyed by the GitHub id.
func (l *Linker) LinkGitHub(ctx context.Context, userID string, snapshot GitHubSnapshot) (*LinkResult, error) {
	if snapshot.GitHubID == "" {
		return nil, NewError(KindInvalidArgument, "link github", "github id is required", nil)
	}
	user, profile, err := l.database.LinkGitHub(ctx, userID, snapshot)
	if err != nil {
		return nil, linkError("link github", err)
	}
	l.logger.Info("github linked", "user_id", user.ID, "github_id", snapshot.GitHubID, "username", snapshot.Username)
	return &LinkResult{User: user, GitHub: profile}, nil
}

// UpsertSubredditKarma stores karma rows against the user's Reddit snapshot.
// Rows are keyed by subreddit; a later call replaces earlier values.
func (l *Linker) UpsertSubredditKarma(ctx context.Context, userID string, rows []SubredditKarmaRow) ([]*sqlc.SubredditKarma, error) {
	const op = "upsert subreddit karma"
	profile, err := l.database.FindRedditProfileByUserID(ctx, userID)
	if err != nil {
		return nil, NewError(KindPersistence, op, "finding reddit profile", err)
	}
	if profile == nil {
		return nil, NewError(KindNotFound, op, "user has no linked reddit account", nil)
	}
	stored, err := l.database.UpsertSubredditKarma(ctx, profile.ID, rows)
	if err != nil {
		return nil, NewError(KindPersistence, op, "storing karma", err)
	}
	return stored, nil
}

// UpsertRepositoryContribution stores contribution metrics against the user's
// GitHub snapshot, keyed by repository owner and name.
func (l *Linker) UpsertRepositoryContribution(ctx context.Context, userID string, row ContributionRow) (*sqlc.RepositoryContribution, error) {
	const op = "upsert repository contribution"
	profile, err := l.database.FindGitHubProfileByUserID(ctx, userID)
	if err != nil {
		return nil, NewError(KindPersistence, op, "finding github profile", err)
	}
	if profile == nil {
		return nil, NewError(KindNotFound, op, "github data not found for user", nil)
	}
	stored, err := l.database.UpsertRepositoryContribution(ctx, profile.ID, row)
	if err != nil {
		return nil, NewError(KindPersistence, op, "storing contribution", err)
	}
	return stored, nil
}

// RegisterWallet creates the user owning address, or returns the existing
// one. Addresses are stored lower-cased.
func (l *Linker) RegisterWallet(ctx context.Context, address string) (*sqlc.User, error) {
	if !ValidWalletAddress(address) {
		return nil, NewError(KindInvalidArgument, "register wallet", "invalid wallet address", nil)
	}
	user, err := l.database.UpsertWalletUser(ctx, strings.ToLower(address), false)
	if err != nil {
		return nil, NewError(KindPersistence, "register wallet", "storing user", err)
	}
	l.logger.Info("wallet registered", "user_id", user.ID, "wallet_address", user.WalletAddress.String)
	return user, nil
}

// CheckWallet returns the user owning address, or nil if there is none.
func (l *Linker) CheckWallet(ctx context.Context, address string) (*sqlc.User, error) {
	if !ValidWalletAddress(address) {
		return nil, NewError(KindInvalidArgument, "check wallet", "invalid wallet address", nil)
	}
	user, err := l.database.FindUserByWalletAddress(ctx, strings.ToLower(address))
	if err != nil {
		return nil, NewError(KindPersistence, "check wallet", "finding user", err)
	}
	return user, nil
}

// Unlink removes a provider identity from a user. The stored snapshot is
// kept; the user is never deleted.
func (l *Linker) Unlink(ctx context.Context, userID string, platform Platform) (*sqlc.User, error) {
	const op = "unlink"
	var (
		user *sqlc.User
		err  error
	)
	switch platform {
	case PlatformReddit:
		user, err = l.database.UnlinkReddit(ctx, userID)
	case PlatformGitHub:
		user, err = l.database.UnlinkGitHub(ctx, userID)
	default:
		return nil, NewError(KindInvalidArgument, op, fmt.Sprintf("cannot unlink platform %q", platform), nil)
	}
	if err != nil {
		return nil, NewError(KindPersistence, op, "clearing identity", err)
	}
	if user == nil {
		return nil, NewError(KindNotFound, op, "user not found", nil)
	}
	l.logger.Info("identity unlinked", "user_id", userID, "platform", platform)
	return user, nil
}

// linkError passes classified errors through and marks the rest as
// persistence failures.
func linkError(op string, err error) error {
	if KindOf(err) != "" {
		return err
	}
	return NewError(KindPersistence, op, "storing link", err)
}
