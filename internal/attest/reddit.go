package attest

import (
	"context"
	"encoding/json"
	"sort"

	"attest-go/internal/database/sqlc"
)

// maxSubreddits is how many subreddits are kept from a karma breakdown.
const maxSubreddits = 15

// RedditAuthResult is returned by AuthenticateReddit.
type RedditAuthResult struct {
	Link        *LinkResult
	AccessToken string
	Profile     *RedditProfile
	Attestation *AttestationOutcome
}

// AuthenticateReddit exchanges an OAuth code, fetches the profile, links it
// to userID (or to a user keyed by the Reddit id when userID is empty) and
// attests the profile.
func (s *Service) AuthenticateReddit(ctx context.Context, code, userID string) (*RedditAuthResult, error) {
	const op = "authenticate reddit"
	if s.reddit == nil {
		return nil, NewError(KindConfig, op, "reddit is not configured", nil)
	}
	if code == "" {
		return nil, NewError(KindInvalidArgument, op, "authorization code is required", nil)
	}

	token, err := s.reddit.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	profile, err := s.reddit.FetchProfile(ctx, token.Value)
	if err != nil {
		return nil, err
	}

	raw, hash, err := canonicalRaw(profile.Raw)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	totalKarma := profile.TotalKarma
	if totalKarma == 0 {
		totalKarma = profile.CommentKarma + profile.LinkKarma
	}
	snapshot := RedditSnapshot{
		RedditID:       profile.ID,
		Username:       profile.Name,
		TotalKarma:     totalKarma,
		CommentKarma:   profile.CommentKarma,
		LinkKarma:      profile.LinkKarma,
		AccountAge:     AccountAgeFromUnix(profile.CreatedUTC, now),
		CreatedUTC:     profile.CreatedUTC,
		Verified:       profile.HasVerifiedEmail,
		IsPremium:      profile.IsPremium,
		IconImg:        profile.IconImg,
		RawAPIResponse: raw,
		ProofHash:      hash,
		ProofTimestamp: now,
	}

	link, err := s.linker.LinkReddit(ctx, userID, snapshot)
	if err != nil {
		return nil, err
	}

	outcome := s.attest(ctx, AttestationRequest{
		Platform: PlatformReddit,
		Type:     TypeProfile,
		UserID:   link.User.ID,
		RawData:  json.RawMessage(raw),
		ProcessedData: map[string]any{
			"username":     snapshot.Username,
			"totalKarma":   snapshot.TotalKarma,
			"commentKarma": snapshot.CommentKarma,
			"linkKarma":    snapshot.LinkKarma,
			"accountAge":   snapshot.AccountAge,
			"verified":     snapshot.Verified,
			"isPremium":    snapshot.IsPremium,
		},
		APIEndpoint: s.reddit.ProfileEndpoint(),
	})

	return &RedditAuthResult{
		Link:        link,
		AccessToken: token.Value,
		Profile:     profile,
		Attestation: outcome,
	}, nil
}

// SubredditKarmaTotal is one ranked subreddit.
type SubredditKarmaTotal struct {
	Subreddit    string `json:"subreddit"`
	CommentKarma int64  `json:"commentKarma"`
	LinkKarma    int64  `json:"linkKarma"`
	TotalKarma   int64  `json:"totalKarma"`
}

// SubredditKarmaResult is returned by FetchSubredditKarma.
type SubredditKarmaResult struct {
	SubredditKarma  []SubredditKarmaTotal
	TotalSubreddits int
	Stored          []*sqlc.SubredditKarma
	Raw             json.RawMessage
	Attestation     *AttestationOutcome
}

// RankSubredditKarma returns the subreddits with positive karma, highest
// total first, at most limit of them. Ties keep name order.
func RankSubredditKarma(entries []SubredditKarmaEntry, limit int) []SubredditKarmaTotal {
	ranked := make([]SubredditKarmaTotal, 0, len(entries))
	for _, e := range entries {
		if e.Total() <= 0 {
			continue
		}
		ranked = append(ranked, SubredditKarmaTotal{
			Subreddit:    e.Subreddit,
			CommentKarma: e.CommentKarma,
			LinkKarma:    e.LinkKarma,
			TotalKarma:   e.Total(),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalKarma != ranked[j].TotalKarma {
			return ranked[i].TotalKarma > ranked[j].TotalKarma
		}
		return ranked[i].Subreddit < ranked[j].Subreddit
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// FetchSubredditKarma fetches the user's per-subreddit karma, stores the top
// subreddits against their Reddit snapshot and attests them.
func (s *Service) FetchSubredditKarma(ctx context.Context, accessToken, userID string) (*SubredditKarmaResult, error) {
	const op = "fetch subreddit karma"
	if s.reddit == nil {
		return nil, NewError(KindConfig, op, "reddit is not configured", nil)
	}
	if accessToken == "" || userID == "" {
		return nil, NewError(KindInvalidArgument, op, "access token and user id are required", nil)
	}

	karma, err := s.reddit.FetchKarma(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	raw, _, err := canonicalRaw(karma.Raw)
	if err != nil {
		return nil, err
	}

	ranked := RankSubredditKarma(karma.Entries, maxSubreddits)
	result := &SubredditKarmaResult{
		SubredditKarma:  ranked,
		TotalSubreddits: len(karma.Entries),
		Raw:             json.RawMessage(raw),
	}
	if len(ranked) == 0 {
		return result, nil
	}

	now := s.clock.Now()
	rows := make([]SubredditKarmaRow, len(ranked))
	for i, r := range ranked {
		rows[i] = SubredditKarmaRow{
			Subreddit:      r.Subreddit,
			CommentKarma:   r.CommentKarma,
			LinkKarma:      r.LinkKarma,
			TotalKarma:     r.TotalKarma,
			RawKarmaData:   raw,
			ProofTimestamp: now,
		}
	}
	result.Stored, err = s.linker.UpsertSubredditKarma(ctx, userID, rows)
	if err != nil {
		return nil, err
	}

	var username string
	if user, err := s.database.FindUserByID(ctx, userID); err == nil && user != nil {
		username = user.RedditUsername.String
	}
	processed := map[string]any{
		"subredditKarma":  ranked,
		"totalSubreddits": result.TotalSubreddits,
	}
	result.Attestation = s.attest(ctx, AttestationRequest{
		Platform:      PlatformReddit,
		Type:          TypeSubredditKarma,
		UserID:        userID,
		RawData:       json.RawMessage(raw),
		ProcessedData: processed,
		Summary: map[string]any{
			"username":         username,
			"subredditKarma":   ranked,
			"totalSubreddits":  result.TotalSubreddits,
			"verificationType": TypeSubredditKarma,
		},
		APIEndpoint: s.reddit.KarmaEndpoint(),
	})
	return result, nil
}
