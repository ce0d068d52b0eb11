package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"attest-go/internal/attest"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	height, err := s.svc.Attestor().CurrentHeight(r.Context())
	if err != nil {
		resp["ledger"] = "unavailable"
	} else {
		resp["blockHeight"] = height.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckWallet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WalletAddress string `json:"walletAddress"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.svc.Linker().CheckWallet(r.Context(), req.WalletAddress)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"userExists": user != nil,
		"user":       toUser(user),
	})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	s.writeProfile(w, r, userIDFrom(r.Context()))
}

// handleGetUser returns a profile. Users may read their own; verifiers may
// read anyone's.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id != userIDFrom(r.Context()) && !isVerifier(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
		return
	}
	s.writeProfile(w, r, id)
}

func (s *Server) writeProfile(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := s.svc.GetUserProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfile(profile))
}

func (s *Server) handleUnlink(w http.ResponseWriter, r *http.Request) {
	platform := attest.Platform(mux.Vars(r)["platform"])
	user, err := s.svc.Linker().Unlink(r.Context(), userIDFrom(r.Context()), platform)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": toUser(user)})
}

type codeRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleRedditAuth(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.svc.AuthenticateReddit(r.Context(), req.Code, userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success     bool               `json:"success"`
		User        *userJSON          `json:"user"`
		Profile     *redditProfileJSON `json:"redditProfile"`
		AccessToken string             `json:"accessToken"`
		outcomeJSON
	}{
		Success:     true,
		User:        toUser(result.Link.User),
		Profile:     toRedditProfile(result.Link.Reddit),
		AccessToken: result.AccessToken,
		outcomeJSON: toOutcome(result.Attestation),
	})
}

func (s *Server) handleSubredditKarma(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccessToken string `json:"accessToken"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.svc.FetchSubredditKarma(r.Context(), req.AccessToken, userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success         bool                         `json:"success"`
		SubredditKarma  []attest.SubredditKarmaTotal `json:"subredditKarma"`
		TotalSubreddits int                          `json:"totalSubreddits"`
		outcomeJSON
	}{
		Success:         true,
		SubredditKarma:  result.SubredditKarma,
		TotalSubreddits: result.TotalSubreddits,
		outcomeJSON:     toOutcome(result.Attestation),
	})
}

func (s *Server) handleGitHubAuth(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.svc.AuthenticateGitHub(r.Context(), req.Code, userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success     bool               `json:"success"`
		User        *userJSON          `json:"user"`
		Profile     *githubProfileJSON `json:"githubProfile"`
		AccessToken string             `json:"accessToken"`
		outcomeJSON
	}{
		Success:     true,
		User:        toUser(result.Link.User),
		Profile:     toGitHubProfile(result.Link.GitHub),
		AccessToken: result.AccessToken,
		outcomeJSON: toOutcome(result.Attestation),
	})
}

func (s *Server) handleRepositoryContributions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccessToken string `json:"accessToken"`
		Owner       string `json:"owner"`
		Repo        string `json:"repo"`
		Username    string `json:"username"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	scope := attest.RepositoryScope{Owner: req.Owner, Repo: req.Repo, Username: req.Username}
	result, err := s.svc.FetchRepositoryContributions(r.Context(), req.AccessToken, userIDFrom(r.Context()), scope)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success      bool             `json:"success"`
		Contribution contributionJSON `json:"contribution"`
		outcomeJSON
	}{
		Success:      true,
		Contribution: toContribution(result.Contribution),
		outcomeJSON:  toOutcome(result.Attestation),
	})
}

func (s *Server) handleProve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL      string   `json:"url"`
		Headers  []string `json:"headers"`
		Platform string   `json:"platform"`
		Notary   string   `json:"notary"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.svc.ProveURL(r.Context(), userIDFrom(r.Context()), attest.ProofRequest{
		URL:      req.URL,
		Headers:  req.Headers,
		Platform: req.Platform,
		Notary:   req.Notary,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := struct {
		Success bool                 `json:"success"`
		Proof   *attest.ProofResponse `json:"proof"`
		ProofID string               `json:"proofId,omitempty"`
		outcomeJSON
	}{
		Success:     true,
		Proof:       result.Proof,
		outcomeJSON: toOutcome(result.Attestation),
	}
	if result.Stored != nil {
		resp.ProofID = result.Stored.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListProofs(w http.ResponseWriter, r *http.Request) {
	proofs, err := s.svc.ListProofs(r.Context(), userIDFrom(r.Context()), r.URL.Query().Get("platform"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]proofJSON, 0, len(proofs))
	for _, p := range proofs {
		out = append(out, toProof(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"proofs": out})
}

// handleListAttestations lists attestations. Non-verifiers only see their
// own.
func (s *Server) handleListAttestations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := attest.AttestationFilter{
		UserID:          q.Get("userId"),
		Platform:        q.Get("platform"),
		AttestationType: attest.AttestationType(q.Get("attestationType")),
		EntityKey:       q.Get("entityKey"),
		Status:          attest.Status(q.Get("status")),
	}
	if !isVerifier(r.Context()) {
		f.UserID = userIDFrom(r.Context())
	}
	if v := q.Get("isExpired"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, attest.NewError(attest.KindInvalidArgument, "list attestations", "isExpired must be true or false", err))
			return
		}
		f.IsExpired = &b
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, attest.NewError(attest.KindInvalidArgument, "list attestations", "limit must be a non-negative integer", err))
			return
		}
		f.Limit = n
	}

	records, err := s.svc.Attestor().GetAttestations(r.Context(), f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]attestationJSON, 0, len(records))
	for _, rec := range records {
		out = append(out, toAttestation(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"attestations": out, "count": len(out)})
}

func (s *Server) handleVerifyIntegrity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RawData      json.RawMessage `json:"rawData"`
		ExpectedHash string          `json:"expectedHash"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.RawData) == 0 || req.ExpectedHash == "" {
		s.writeError(w, r, attest.NewError(attest.KindInvalidArgument, "verify integrity", "rawData and expectedHash are required", nil))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"valid": s.svc.Attestor().VerifyIntegrity(req.RawData, req.ExpectedHash),
	})
}

func (s *Server) handleVerifyAttestation(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Attestor().VerifyAttestation(r.Context(), mux.Vars(r)["entityKey"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Attestation attestationJSON `json:"attestation"`
		HashValid   bool            `json:"hashValid"`
		OnLedger    bool            `json:"onLedger"`
		LedgerMatch bool            `json:"ledgerMatch"`
	}{
		Attestation: toAttestation(v.Attestation),
		HashValid:   v.HashValid,
		OnLedger:    v.OnLedger,
		LedgerMatch: v.LedgerMatch,
	})
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Attestor().RevokeAttestation(r.Context(), mux.Vars(r)["entityKey"], userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "attestation": toAttestation(rec)})
}

func (s *Server) handleVerifierUsers(w http.ResponseWriter, r *http.Request) {
	overview, err := s.svc.VerifierOverview(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	users := make([]*profileJSON, 0, len(overview.Users))
	for _, u := range overview.Users {
		users = append(users, toProfile(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"stats": map[string]any{
			"totalUsers":      overview.Stats.TotalUsers,
			"redditConnected": overview.Stats.RedditConnected,
			"githubConnected": overview.Stats.GitHubConnected,
			"averageKarma":    overview.Stats.AverageKarma,
			"averageRepos":    overview.Stats.AverageRepos,
		},
	})
}
