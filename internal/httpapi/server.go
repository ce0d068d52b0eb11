// Package httpapi exposes the attestation service over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"attest-go/internal/attest"
)

// Options configures a Server.
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	Clock          attest.Clock
}

// Server routes HTTP requests to the service.
type Server struct {
	svc       *attest.Service
	logger    attest.Logger
	clock     attest.Clock
	jwtSecret []byte
	origins   []string
}

// NewServer creates a Server.
func NewServer(svc *attest.Service, logger attest.Logger, opts Options) *Server {
	clock := opts.Clock
	if clock == nil {
		clock = &attest.RealClock{}
	}
	return &Server{
		svc:       svc,
		logger:    attest.WithFields(logger, "component", "http"),
		clock:     clock,
		jwtSecret: []byte(opts.JWTSecret),
		origins:   opts.AllowedOrigins,
	}
}

// Handler returns the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/users/check", s.handleCheckWallet).Methods(http.MethodPost)
	api.HandleFunc("/users/me", s.requireUser(s.handleGetMe)).Methods(http.MethodGet)
	api.HandleFunc("/users/me/{platform}", s.requireUser(s.handleUnlink)).Methods(http.MethodDelete)
	api.HandleFunc("/users/{id}", s.requireUser(s.handleGetUser)).Methods(http.MethodGet)

	api.HandleFunc("/reddit/auth", s.optionalUser(s.handleRedditAuth)).Methods(http.MethodPost)
	api.HandleFunc("/reddit/subreddit-karma", s.requireUser(s.handleSubredditKarma)).Methods(http.MethodPost)
	api.HandleFunc("/github/auth", s.optionalUser(s.handleGitHubAuth)).Methods(http.MethodPost)
	api.HandleFunc("/github/repository-contributions", s.requireUser(s.handleRepositoryContributions)).Methods(http.MethodPost)

	api.HandleFunc("/zktls/prove", s.requireUser(s.handleProve)).Methods(http.MethodPost)
	api.HandleFunc("/zktls/proofs", s.requireUser(s.handleListProofs)).Methods(http.MethodGet)

	api.HandleFunc("/attestations", s.requireUser(s.handleListAttestations)).Methods(http.MethodGet)
	api.HandleFunc("/attestations/verify", s.handleVerifyIntegrity).Methods(http.MethodPost)
	api.HandleFunc("/attestations/{entityKey}/verify", s.requireUser(s.handleVerifyAttestation)).Methods(http.MethodGet)
	api.HandleFunc("/attestations/{entityKey}/revoke", s.requireUser(s.handleRevoke)).Methods(http.MethodPost)

	api.HandleFunc("/verifier/users", s.requireVerifier(s.handleVerifierUsers)).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
