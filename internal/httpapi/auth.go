package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"attest-go/internal/attest"
)

// RoleVerifier marks session tokens allowed to read every user.
const RoleVerifier = "verifier"

type contextKey string

const claimsKey contextKey = "claims"

// Claims are the session token claims. Subject is the user id.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 session token for userID.
func IssueToken(secret []byte, userID, role string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

var errUnauthorized = errors.New("unauthorized")

// parseToken returns the request's session claims, or nil when the request
// carries no bearer token.
func (s *Server) parseToken(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errUnauthorized
	}
	if len(s.jwtSecret) == 0 {
		return nil, attest.NewError(attest.KindConfig, "authenticate", "jwt secret is not configured", nil)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
		func(t *jwt.Token) (any, error) { return s.jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, errUnauthorized
	}
	return claims, nil
}

func (s *Server) withClaims(next http.HandlerFunc, required bool, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.parseToken(r)
		if errors.Is(err, errUnauthorized) || (err == nil && claims == nil && required) {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing or invalid session token"})
			return
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if role != "" && claims.Role != role {
			writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
			return
		}
		if claims != nil {
			r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
		}
		next(w, r)
	}
}

func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return s.withClaims(next, true, "")
}

// optionalUser admits anonymous requests; a token that is present must
// still be valid.
func (s *Server) optionalUser(next http.HandlerFunc) http.HandlerFunc {
	return s.withClaims(next, false, "")
}

func (s *Server) requireVerifier(next http.HandlerFunc) http.HandlerFunc {
	return s.withClaims(next, true, RoleVerifier)
}

func claimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}

// userIDFrom returns the session user id, or "" for anonymous requests.
func userIDFrom(ctx context.Context) string {
	if c := claimsFrom(ctx); c != nil {
		return c.Subject
	}
	return ""
}

func isVerifier(ctx context.Context) bool {
	c := claimsFrom(ctx)
	return c != nil && c.Role == RoleVerifier
}
