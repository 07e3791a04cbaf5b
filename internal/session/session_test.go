package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/marketplace/internal/session"
	domain "github.com/donaldgifford/marketplace/pkg/types"
)

var testSecret = []byte("dev-secret")

func TestManager_Transitions(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	assert.False(t, m.SignedIn())

	who := domain.Identity{ID: "dana@example.com", DisplayName: "Dana"}
	require.NoError(t, m.SignIn(who))

	got, ok := m.Identity()
	assert.True(t, ok)
	assert.Equal(t, who, got)

	m.SignOut()
	got, ok = m.Identity()
	assert.False(t, ok)
	assert.Equal(t, domain.Identity{}, got)
}

func TestManager_SignInRequiresID(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	assert.ErrorIs(t, m.SignIn(domain.Identity{DisplayName: "nobody"}), session.ErrMissingSubject)
	assert.False(t, m.SignedIn())
}

func TestManager_Concurrent(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_ = m.SignIn(domain.Identity{ID: "a@example.com"})
			} else {
				m.SignOut()
			}
			_, _ = m.Identity()
		}()
	}
	wg.Wait()
}

func TestAnonymous(t *testing.T) {
	t.Parallel()

	_, ok := session.Anonymous.Identity()
	assert.False(t, ok)
}

func TestOwns(t *testing.T) {
	t.Parallel()

	l := &domain.Listing{UserID: "dana@example.com"}

	m := session.NewManager()
	assert.False(t, session.Owns(m, l), "signed out owns nothing")

	require.NoError(t, m.SignIn(domain.Identity{ID: "dana@example.com"}))
	assert.True(t, session.Owns(m, l))

	require.NoError(t, m.SignIn(domain.Identity{ID: "eli@example.com"}))
	assert.False(t, session.Owns(m, l))
}

func TestIssueAndParseDevToken(t *testing.T) {
	t.Parallel()

	who := domain.Identity{ID: "dana@example.com", DisplayName: "Dana Levi"}
	raw, err := session.IssueDevToken(who, testSecret, time.Hour)
	require.NoError(t, err)

	got, err := session.ParseIDToken(raw, session.HMACKey(testSecret))
	require.NoError(t, err)
	assert.Equal(t, who, got)
}

func TestParseIDToken_Errors(t *testing.T) {
	t.Parallel()

	who := domain.Identity{ID: "dana@example.com"}

	expired, err := session.IssueDevToken(who, testSecret, -time.Minute)
	require.NoError(t, err)

	valid, err := session.IssueDevToken(who, testSecret, time.Hour)
	require.NoError(t, err)

	noneSigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"email": "x@example.com"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
		key  []byte
	}{
		{name: "expired", raw: expired, key: testSecret},
		{name: "wrong secret", raw: valid, key: []byte("other")},
		{name: "garbage", raw: "not-a-token", key: testSecret},
		{name: "unsigned", raw: noneSigned, key: testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := session.ParseIDToken(tt.raw, session.HMACKey(tt.key))
			require.Error(t, err)
		})
	}
}

func TestIDTokenClaims_Identity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		claims  session.IDTokenClaims
		want    domain.Identity
		wantErr error
	}{
		{
			name:   "email preferred",
			claims: session.IDTokenClaims{Email: "a@example.com", Name: "A", RegisteredClaims: jwt.RegisteredClaims{Subject: "123"}},
			want:   domain.Identity{ID: "a@example.com", DisplayName: "A"},
		},
		{
			name:   "subject fallback",
			claims: session.IDTokenClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "123"}},
			want:   domain.Identity{ID: "123"},
		},
		{
			name:    "nothing",
			claims:  session.IDTokenClaims{Name: "A"},
			wantErr: session.ErrMissingSubject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.claims.Identity()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestManager_SignInWithToken(t *testing.T) {
	t.Parallel()

	raw, err := session.IssueDevToken(domain.Identity{ID: "dana@example.com"}, testSecret, time.Hour)
	require.NoError(t, err)

	m := session.NewManager()
	require.NoError(t, m.SignInWithToken(raw, session.HMACKey(testSecret)))
	assert.True(t, m.SignedIn())

	m.SignOut()
	require.Error(t, m.SignInWithToken(raw, session.HMACKey([]byte("wrong"))))
	assert.False(t, m.SignedIn())
}
