// Package firebase implements auth.Provider over the Firebase Auth
// (Identity Toolkit) REST API: password sign-in, federated sign-in with an
// IdP credential, and local sign-out. Auth-state listeners fire on the
// goroutine that triggered the transition.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/passvault/internal/auth"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

const defaultEndpoint = "https://identitytoolkit.googleapis.com"

// Config holds settings for the provider.
//
// Endpoint overrides the Identity Toolkit base URL (auth emulator, tests).
// HTTPClient defaults to a client with a 10s timeout.
type Config struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Provider is a Firebase-backed auth.Provider. One Provider supports exactly
// one subscriber, matching the single-subscription session manager.
type Provider struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	log        logging.Logger

	mu         sync.Mutex
	subscribed bool
	onChange   func(*auth.Principal)
	onErr      func(error)
	current    *auth.Principal
	idToken    string
}

func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("firebase: api key is required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Provider{
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
		httpClient: httpClient,
		log:        cfg.Logger,
	}, nil
}

// Subscribe registers the auth-state callbacks and immediately reports the
// current state, mirroring the provider's listener semantics. The REST
// surface has no server-push stream, so onErr is retained for the contract
// but this implementation has no asynchronous failure source to feed it.
func (p *Provider) Subscribe(onChange func(*auth.Principal), onErr func(error)) error {
	p.mu.Lock()
	if p.subscribed {
		p.mu.Unlock()
		return errors.New("firebase: already subscribed")
	}
	p.subscribed = true
	p.onChange = onChange
	p.onErr = onErr
	current := p.current
	p.mu.Unlock()

	onChange(current)
	return nil
}

type signInResponse struct {
	IDToken     string `json:"idToken"`
	Email       string `json:"email"`
	LocalID     string `json:"localId"`
	DisplayName string `json:"displayName"`
}

// SignInWithPassword authenticates with an email/password pair. On success
// the auth-state listener fires with the new principal before this returns.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) error {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	var res signInResponse
	if err := p.post(ctx, "signInWithPassword", body, &res); err != nil {
		return err
	}
	return p.acceptToken(ctx, res)
}

// SignInWithIdP authenticates with a federated provider credential (an OAuth
// ID token obtained out of band), e.g. providerID "google.com".
func (p *Provider) SignInWithIdP(ctx context.Context, providerID, credential string) error {
	body := map[string]any{
		"postBody":          fmt.Sprintf("id_token=%s&providerId=%s", url.QueryEscape(credential), url.QueryEscape(providerID)),
		"requestUri":        "http://localhost",
		"returnSecureToken": true,
	}
	var res signInResponse
	if err := p.post(ctx, "signInWithIdp", body, &res); err != nil {
		return err
	}
	return p.acceptToken(ctx, res)
}

// SignOut drops the local session and notifies the listener. The REST API has
// no server-side session to revoke.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.current = nil
	p.idToken = ""
	onChange := p.onChange
	p.mu.Unlock()

	if p.log != nil {
		p.log.Info(ctx, "signed out")
	}
	if onChange != nil {
		onChange(nil)
	}
	return nil
}

func (p *Provider) acceptToken(ctx context.Context, res signInResponse) error {
	claims, err := decodeIDToken(res.IDToken)
	if err != nil {
		return err
	}

	principal := &auth.Principal{
		UID:         claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Provider:    claims.Firebase.SignInProvider,
	}
	// the token body is authoritative; the response fields fill any gaps
	if principal.UID == "" {
		principal.UID = res.LocalID
	}
	if principal.Email == "" {
		principal.Email = res.Email
	}
	if principal.DisplayName == "" {
		principal.DisplayName = res.DisplayName
	}

	p.mu.Lock()
	p.current = principal
	p.idToken = res.IDToken
	onChange := p.onChange
	p.mu.Unlock()

	if p.log != nil {
		p.log.Info(ctx, "signed in", "uid", principal.UID, "provider", principal.Provider)
	}
	if onChange != nil {
		onChange(principal)
	}
	return nil
}

func (p *Provider) post(ctx context.Context, action string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}

	u := fmt.Sprintf("%s/v1/accounts:%s?key=%s", p.endpoint, action, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if p.log != nil {
		p.log.Debug(ctx, "identity toolkit request", "action", action)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return classifyAPIError(resp.StatusCode, apiErr.Error.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func classifyAPIError(status int, message string) error {
	switch message {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED", "INVALID_IDP_RESPONSE":
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, message)
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return fmt.Errorf("identity provider error: %s (status %d)", message, status)
}
