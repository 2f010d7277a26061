package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrInvalidAPIKey = errors.New("invalid api key")
)

type subjectKey struct{}

// Claims is the bearer token payload.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 bearer tokens. Tokens are obtained by
// exchanging the configured API key.
type Issuer struct {
	secret []byte
	apiKey string
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret, apiKey string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		apiKey: apiKey,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Exchange issues a token for subject when apiKey matches.
func (i *Issuer) Exchange(apiKey, subject string) (string, time.Time, error) {
	if i.apiKey == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(i.apiKey)) != 1 {
		return "", time.Time{}, ErrInvalidAPIKey
	}

	return i.Issue(subject)
}

// Issue signs a token for subject that expires after the issuer's TTL.
func (i *Issuer) Issue(subject string) (string, time.Time, error) {
	now := i.now()
	expires := now.Add(i.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return signed, expires, nil
}

// Verify parses token and checks its signature and expiry.
func (i *Issuer) Verify(token string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Middleware rejects requests without a valid "Authorization: Bearer" token
// and stores the token subject in the request context.
func (i *Issuer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		claims, err := i.Verify(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey{}, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SubjectFromContext returns the authenticated subject, or "" when the
// request was not authenticated.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey{}).(string)
	return s
}
