package attest

import (
	"context"

	"attest-go/internal/database/sqlc"
)

// GetUserProfile returns the user with its linked snapshots. Snapshots of
// unlinked identities are kept in storage but not shown.
func (s *Service) GetUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	const op = "get user profile"
	if userID == "" {
		return nil, NewError(KindInvalidArgument, op, "user id is required", nil)
	}
	user, err := s.database.FindUserByID(ctx, userID)
	if err != nil {
		return nil, NewError(KindPersistence, op, "finding user", err)
	}
	if user == nil {
		return nil, NewError(KindNotFound, op, "user not found", nil)
	}
	profile, err := s.loadProfile(ctx, user)
	if err != nil {
		return nil, NewError(KindPersistence, op, "loading linked data", err)
	}
	return profile, nil
}

func (s *Service) loadProfile(ctx context.Context, user *sqlc.User) (*UserProfile, error) {
	profile := &UserProfile{User: user}

	if user.RedditID.Valid {
		reddit, err := s.database.FindRedditProfileByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if reddit != nil {
			profile.Reddit = reddit
			profile.SubredditKarma, err = s.database.ListSubredditKarma(ctx, reddit.ID)
			if err != nil {
				return nil, err
			}
		}
	}

	if user.GithubID.Valid {
		github, err := s.database.FindGitHubProfileByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if github != nil {
			profile.GitHub = github
			profile.RepositoryContributions, err = s.database.ListRepositoryContributions(ctx, github.ID)
			if err != nil {
				return nil, err
			}
		}
	}
	return profile, nil
}

// VerifierOverview returns every user with linked data, plus totals.
// Averages are taken over users with the relevant snapshot.
func (s *Service) VerifierOverview(ctx context.Context) (*VerifierOverview, error) {
	const op = "verifier overview"
	users, err := s.database.ListUsers(ctx)
	if err != nil {
		return nil, NewError(KindPersistence, op, "listing users", err)
	}

	overview := &VerifierOverview{Users: make([]*UserProfile, 0, len(users))}
	var karmaSum, repoSum int64
	for _, user := range users {
		profile, err := s.loadProfile(ctx, user)
		if err != nil {
			return nil, NewError(KindPersistence, op, "loading linked data", err)
		}
		overview.Users = append(overview.Users, profile)
		if profile.Reddit != nil {
			overview.Stats.RedditConnected++
			karmaSum += profile.Reddit.TotalKarma
		}
		if profile.GitHub != nil {
			overview.Stats.GitHubConnected++
			repoSum += profile.GitHub.PublicRepos
		}
	}

	overview.Stats.TotalUsers = len(users)
	if n := overview.Stats.RedditConnected; n > 0 {
		overview.Stats.AverageKarma = float64(karmaSum) / float64(n)
	}
	if n := overview.Stats.GitHubConnected; n > 0 {
		overview.Stats.AverageRepos = float64(repoSum) / float64(n)
	}
	return overview, nil
}
