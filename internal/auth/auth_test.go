package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gstbook/internal/auth"
)

func TestIssuer_Exchange(t *testing.T) {
	issuer := auth.NewIssuer("s3cret", "key-123", time.Hour)

	token, expires, err := issuer.Exchange("key-123", "billing-desk")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "billing-desk", claims.Subject)

	_, _, err = issuer.Exchange("wrong", "billing-desk")
	assert.ErrorIs(t, err, auth.ErrInvalidAPIKey)
}

func TestIssuer_Verify(t *testing.T) {
	issuer := auth.NewIssuer("s3cret", "key", time.Hour)
	other := auth.NewIssuer("different", "key", time.Hour)

	token, _, err := other.Issue("intruder")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	issued := time.Now().Add(-2 * time.Hour)
	issuer.SetClock(func() time.Time { return issued })

	expired, _, err := issuer.Issue("late")
	require.NoError(t, err)

	issuer.SetClock(time.Now)

	_, err = issuer.Verify(expired)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestIssuer_Middleware(t *testing.T) {
	issuer := auth.NewIssuer("s3cret", "key", time.Hour)

	var subject string

	h := issuer.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = auth.SubjectFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := issuer.Issue("desk-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "desk-1", subject)
}
