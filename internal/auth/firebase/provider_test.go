package firebase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/passvault/internal/auth"
	"github.com/dmitrijs2005/passvault/internal/common"
)

func makeIDToken(t *testing.T, uid, email, name, signInProvider string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   uid,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"firebase": map[string]any{
			"sign_in_provider": signInProvider,
		},
	}
	if name != "" {
		claims["name"] = name
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := New(Config{APIKey: "test-api-key", Endpoint: srv.URL})
	require.NoError(t, err)
	return p
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestSignInWithPassword_NotifiesListener(t *testing.T) {
	token := ""
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.URL.Path, "accounts:signInWithPassword")
		require.Equal(t, "test-api-key", r.URL.Query().Get("key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.c", body["email"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"idToken": token,
			"email":   "a@b.c",
			"localId": "u1",
		})
	})
	token = makeIDToken(t, "u1", "a@b.c", "Alice", "password")

	var got []*auth.Principal
	require.NoError(t, p.Subscribe(func(pr *auth.Principal) { got = append(got, pr) }, nil))
	require.Len(t, got, 1)
	require.Nil(t, got[0], "initial state is signed out")

	require.NoError(t, p.SignInWithPassword(context.Background(), "a@b.c", "secret"))

	require.Len(t, got, 2)
	require.Equal(t, "u1", got[1].UID)
	require.Equal(t, "a@b.c", got[1].Email)
	require.Equal(t, "Alice", got[1].DisplayName)
	require.Equal(t, "password", got[1].Provider)
}

func TestSignInWithPassword_WrongPassword(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "INVALID_PASSWORD"},
		})
	})

	err := p.SignInWithPassword(context.Background(), "a@b.c", "wrong")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestSignInWithPassword_ServerError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := p.SignInWithPassword(context.Background(), "a@b.c", "secret")
	require.Error(t, err)
	require.NotErrorIs(t, err, common.ErrUnauthorized)
}

func TestSignInWithPassword_MalformedToken(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"idToken": "garbage", "localId": "u1"})
	})

	err := p.SignInWithPassword(context.Background(), "a@b.c", "secret")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestSignInWithIdP_SendsCredential(t *testing.T) {
	token := ""
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "accounts:signInWithIdp")
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		postBody, _ := body["postBody"].(string)
		require.True(t, strings.Contains(postBody, "providerId=google.com"))

		_ = json.NewEncoder(w).Encode(map[string]any{"idToken": token, "localId": "u2"})
	})
	token = makeIDToken(t, "u2", "g@b.c", "", "google.com")

	require.NoError(t, p.SignInWithIdP(context.Background(), "google.com", "oauth-id-token"))
}

func TestSignOut_NotifiesNil(t *testing.T) {
	token := makeIDToken(t, "u1", "a@b.c", "", "password")
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"idToken": token, "localId": "u1"})
	})

	var got []*auth.Principal
	require.NoError(t, p.Subscribe(func(pr *auth.Principal) { got = append(got, pr) }, nil))
	require.NoError(t, p.SignInWithPassword(context.Background(), "a@b.c", "secret"))
	require.NoError(t, p.SignOut(context.Background()))

	require.Len(t, got, 3)
	require.Nil(t, got[2])
}

func TestSubscribe_SingleSubscriber(t *testing.T) {
	p, err := New(Config{APIKey: "k"})
	require.NoError(t, err)
	require.NoError(t, p.Subscribe(func(*auth.Principal) {}, nil))
	require.Error(t, p.Subscribe(func(*auth.Principal) {}, nil))
}

func TestDecodeIDToken_FallbackFields(t *testing.T) {
	// token without name claim; display name comes from the response payload
	token := makeIDToken(t, "u9", "x@y.z", "", "password")
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"idToken":     token,
			"localId":     "u9",
			"displayName": "From Response",
		})
	})

	var last *auth.Principal
	require.NoError(t, p.Subscribe(func(pr *auth.Principal) { last = pr }, nil))
	require.NoError(t, p.SignInWithPassword(context.Background(), "x@y.z", "pw"))
	require.NotNil(t, last)
	require.Equal(t, "From Response", last.DisplayName)
}
