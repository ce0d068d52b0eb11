package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"attest-go/internal/app"
	"attest-go/internal/attest"
	"attest-go/internal/database/sqlc"
	"attest-go/internal/httpapi"

	"github.com/spf13/cobra"
)

func printUser(u *sqlc.User) {
	fmt.Printf("ID:       %s\n", u.ID)
	fmt.Printf("Wallet:   %s\n", orDash(u.WalletAddress.String))
	fmt.Printf("Reddit:   %s\n", orDash(u.RedditUsername.String))
	fmt.Printf("GitHub:   %s\n", orDash(u.GithubUsername.String))
	fmt.Printf("Created:  %s\n", u.CreatedAt.Format("2006-01-02 15:04:05"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// users command
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

var usersAddCmd = &cobra.Command{
	Use:   "add WALLET",
	Short: "Register a wallet address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), "users add", func(ctx context.Context, a *app.AttestApp) error {
			user, err := a.RegisterWallet(ctx, args[0])
			if err != nil {
				return err
			}
			printUser(user)
			return nil
		})
	},
}

var usersShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a user and linked accounts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), "users show", func(ctx context.Context, a *app.AttestApp) error {
			profile, err := a.UserProfile(ctx, args[0])
			if err != nil {
				return err
			}
			printUser(profile.User)
			if r := profile.Reddit; r != nil {
				fmt.Printf("\nReddit u/%s: %d karma, %s old\n", r.Username, r.TotalKarma, r.AccountAge)
				for _, k := range profile.SubredditKarma {
					fmt.Printf("  r/%-24s %8d\n", k.Subreddit, k.TotalKarma)
				}
			}
			if g := profile.GitHub; g != nil {
				fmt.Printf("\nGitHub %s: %d public repos, %d followers\n", g.Username, g.PublicRepos, g.Followers)
				for _, c := range profile.RepositoryContributions {
					fmt.Printf("  %s/%-24s %4d commits %4d PRs (%d merged)\n", c.RepositoryOwner, c.RepositoryName, c.CommitsCount, c.PrsCreated, c.PrsMerged)
				}
			}
			return nil
		})
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users with verifier stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), "users list", func(ctx context.Context, a *app.AttestApp) error {
			overview, err := a.Overview(ctx)
			if err != nil {
				return err
			}
			if len(overview.Users) == 0 {
				fmt.Println("No users.")
				return nil
			}
			for _, p := range overview.Users {
				fmt.Printf("%s  %-42s  reddit:%-20s  github:%s\n",
					p.User.ID,
					orDash(p.User.WalletAddress.String),
					orDash(p.User.RedditUsername.String),
					orDash(p.User.GithubUsername.String),
				)
			}
			s := overview.Stats
			fmt.Printf("\n%d users, %d reddit, %d github, avg karma %.1f, avg repos %.1f\n",
				s.TotalUsers, s.RedditConnected, s.GitHubConnected, s.AverageKarma, s.AverageRepos)
			return nil
		})
	},
}

var usersUnlinkCmd = &cobra.Command{
	Use:   "unlink ID PLATFORM",
	Short: "Detach a reddit or github account from a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), "users unlink", func(ctx context.Context, a *app.AttestApp) error {
			user, err := a.Unlink(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			printUser(user)
			return nil
		})
	},
}

var usersTokenCmd = &cobra.Command{
	Use:   "token ID",
	Short: "Issue a session token for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verifier, _ := cmd.Flags().GetBool("verifier")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		role := ""
		if verifier {
			role = httpapi.RoleVerifier
		}
		return withApp(cmd.Context(), "users token", func(ctx context.Context, a *app.AttestApp) error {
			token, err := a.IssueToken(args[0], role, ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		})
	},
}

// attestations command
var attestationsCmd = &cobra.Command{
	Use:   "attestations",
	Short: "Inspect and manage attestations",
}

var attestationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List attestations",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := attest.AttestationFilter{}
		f.UserID, _ = cmd.Flags().GetString("user")
		f.Platform, _ = cmd.Flags().GetString("platform")
		kind, _ := cmd.Flags().GetString("type")
		f.AttestationType = attest.AttestationType(kind)
		status, _ := cmd.Flags().GetString("status")
		f.Status = attest.Status(status)
		f.Limit, _ = cmd.Flags().GetInt("limit")
		if cmd.Flags().Changed("expired") {
			expired, _ := cmd.Flags().GetBool("expired")
			f.IsExpired = &expired
		}

		return withApp(cmd.Context(), "attestations list", func(ctx context.Context, a *app.AttestApp) error {
			records, err := a.ListAttestations(ctx, f)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No attestations.")
				return nil
			}
			for _, r := range records {
				fmt.Printf("%s  %-7s  %-24s  %-8s  exp:%-10s  %s  %s\n",
					r.EntityKey,
					r.Platform,
					r.AttestationType,
					r.Status,
					r.ExpirationBlock.String(),
					r.UserID,
					r.IssuedAt.Format("2006-01-02 15:04:05"),
				)
			}
			return nil
		})
	},
}

var attestationsVerifyCmd = &cobra.Command{
	Use:   "verify ENTITY_KEY",
	Short: "Check an attestation against its hash and the ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), "attestations verify", func(ctx context.Context, a *app.AttestApp) error {
			v, err := a.VerifyAttestation(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Entity:       %s\n", v.Attestation.EntityKey)
			fmt.Printf("Status:       %s\n", v.Attestation.Status)
			fmt.Printf("Hash valid:   %v\n", v.HashValid)
			fmt.Printf("On ledger:    %v\n", v.OnLedger)
			fmt.Printf("Ledger match: %v\n", v.LedgerMatch)
			if !v.HashValid || !v.LedgerMatch {
				return fmt.Errorf("attestation %s failed verification", args[0])
			}
			return nil
		})
	},
}

var attestationsRevokeCmd = &cobra.Command{
	Use:   "revoke ENTITY_KEY",
	Short: "Revoke an attestation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), "attestations revoke", func(ctx context.Context, a *app.AttestApp) error {
			r, err := a.RevokeAttestation(ctx, args[0], "")
			if err != nil {
				return err
			}
			fmt.Printf("Attestation %s is %s\n", r.EntityKey, r.Status)
			return nil
		})
	},
}

var attestationsExpireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Mark attestations past their expiration block as expired",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), "attestations expire", func(ctx context.Context, a *app.AttestApp) error {
			n, err := a.ExpireAttestations(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Expired %d attestation(s)\n", n)
			return nil
		})
	},
}

// ledger command
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Read the ledger",
}

var ledgerHeightCmd = &cobra.Command{
	Use:   "height",
	Short: "Show the current block height",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), "ledger height", func(ctx context.Context, a *app.AttestApp) error {
			h, err := a.LedgerHeight(ctx)
			if err != nil {
				return err
			}
			fmt.Println(h.String())
			return nil
		})
	},
}

var ledgerShowCmd = &cobra.Command{
	Use:   "show ENTITY_KEY",
	Short: "Show a ledger entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), "ledger show", func(ctx context.Context, a *app.AttestApp) error {
			var passphrase string
			if a.Sealed() {
				p, err := readPassphrase("Passphrase: ")
				if err != nil {
					return err
				}
				passphrase = p
			}

			entity, data, err := a.LedgerEntity(ctx, args[0], passphrase)
			if err != nil {
				return err
			}
			fmt.Printf("Key:        %s\n", entity.Key)
			fmt.Printf("Created:    block %s at %s\n", entity.CreatedAtBlock, entity.CreatedAt.Format(time.RFC3339))
			fmt.Printf("Expires:    block %s\n", entity.ExpirationBlock)
			fmt.Printf("Signer:     %s\n", entity.Signer)
			for _, s := range entity.Annotations.Strings {
				fmt.Printf("  %s = %s\n", s.Key, s.Value)
			}
			for _, n := range entity.Annotations.Numerics {
				fmt.Printf("  %s = %d\n", n.Key, n.Value)
			}
			fmt.Println()

			var pretty json.RawMessage = data
			out, err := json.MarshalIndent(pretty, "", "  ")
			if err != nil {
				os.Stdout.Write(data)
				fmt.Println()
				return nil
			}
			fmt.Println(string(out))
			return nil
		})
	},
}

func init() {
	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersShowCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersUnlinkCmd)
	usersCmd.AddCommand(usersTokenCmd)
	usersTokenCmd.Flags().Bool("verifier", false, "Grant the verifier role")
	usersTokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")

	attestationsCmd.AddCommand(attestationsListCmd)
	attestationsListCmd.Flags().String("user", "", "Filter by user id")
	attestationsListCmd.Flags().String("platform", "", "Filter by platform")
	attestationsListCmd.Flags().String("type", "", "Filter by attestation type")
	attestationsListCmd.Flags().String("status", "", "Filter by status: active, expired or revoked")
	attestationsListCmd.Flags().Bool("expired", false, "Filter by expiry at the current height")
	attestationsListCmd.Flags().IntP("limit", "n", 50, "Maximum number of attestations to show")
	attestationsCmd.AddCommand(attestationsVerifyCmd)
	attestationsCmd.AddCommand(attestationsRevokeCmd)
	attestationsCmd.AddCommand(attestationsExpireCmd)

	ledgerCmd.AddCommand(ledgerHeightCmd)
	ledgerCmd.AddCommand(ledgerShowCmd)
}
