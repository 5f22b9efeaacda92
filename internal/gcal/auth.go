package gcal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"leadspeed/platform/apperr"
	"leadspeed/platform/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// ConsentFunc obtains an authorization code from the user given the consent
// URL. It is only invoked when no stored credential can be refreshed.
type ConsentFunc func(ctx context.Context, authURL string) (string, error)

// CredentialProvider hands out valid OAuth credentials for the calendar
// client, refreshing and persisting them as needed.
type CredentialProvider struct {
	oauthConfig *oauth2.Config
	store       TokenStore
	consent     ConsentFunc
}

// NewCredentialProvider builds a provider from the client-secrets file and the
// token store configured in cfg. consent may be nil for non-interactive
// surfaces such as the dashboard server; those fail with an unauthorized error
// when no stored credential is usable.
func NewCredentialProvider(cfg config.CalendarConfig, consent ConsentFunc) (*CredentialProvider, error) {
	secrets, err := os.ReadFile(cfg.GetGoogleCredentialsFile())
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(secrets, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}

	return &CredentialProvider{
		oauthConfig: oauthConfig,
		store:       NewFileTokenStore(cfg.GetGoogleTokenFile()),
		consent:     consent,
	}, nil
}

// TokenSource returns an OAuth token source backed by the stored credential.
// Expired tokens are refreshed via the standard refresh-token flow and the
// refreshed credential is written back to the store. When no credential is
// stored, the consent flow is run if available.
func (p *CredentialProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	token, err := p.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if token == nil {
		token, err = p.runConsentFlow(ctx)
		if err != nil {
			return nil, err
		}
	}

	return &persistingSource{
		ctx:      ctx,
		source:   oauth2.ReuseTokenSource(token, p.oauthConfig.TokenSource(ctx, token)),
		store:    p.store,
		lastSeen: token.AccessToken,
	}, nil
}

func (p *CredentialProvider) runConsentFlow(ctx context.Context) (*oauth2.Token, error) {
	if p.consent == nil {
		return nil, apperr.Unauthorized("no stored Google credential; run the report CLI once to authorize")
	}

	authURL := p.oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	code, err := p.consent(ctx, authURL)
	if err != nil {
		return nil, fmt.Errorf("consent flow: %w", err)
	}

	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	if err := p.store.Save(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// persistingSource wraps a refreshing token source and writes every refreshed
// credential back to the token store.
type persistingSource struct {
	ctx      context.Context
	source   oauth2.TokenSource
	store    TokenStore
	mu       sync.Mutex
	lastSeen string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.lastSeen {
		if err := s.store.Save(s.ctx, token); err != nil {
			return nil, err
		}
		s.lastSeen = token.AccessToken
	}
	return token, nil
}

// StdinConsent prompts on out and reads the authorization code from in. This
// is the CLI consent flow; the server surface runs without one.
func StdinConsent(in io.Reader, out io.Writer) ConsentFunc {
	reader := bufio.NewReader(in)
	return func(_ context.Context, authURL string) (string, error) {
		fmt.Fprintf(out, "Open the following link in your browser and paste the authorization code:\n%s\n> ", authURL)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		code := strings.TrimSpace(line)
		if code == "" {
			return "", fmt.Errorf("empty authorization code")
		}
		return code, nil
	}
}
