package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/Zerr0-C00L/Katch/internal/config"
)

// Provider runs the OpenID Connect login flow and turns a verified ID token
// into a session cookie.
type Provider struct {
	config   oauth2.Config
	verifier *oidc.IDTokenVerifier
	sessions *SessionManager
	enabled  bool
	logger   *slog.Logger
}

// NewProvider discovers the identity provider. A missing or unreachable
// provider yields a disabled Provider rather than an error.
func NewProvider(ctx context.Context, cfg config.OIDCConfig, sessions *SessionManager, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ProviderURL == "" {
		logger.Info("OIDC_PROVIDER not set, sign-in disabled")
		return &Provider{sessions: sessions, logger: logger}
	}

	provider, err := oidc.NewProvider(ctx, cfg.ProviderURL)
	if err != nil {
		logger.Error("failed to init OIDC provider", "provider", cfg.ProviderURL, "error", err)
		return &Provider{sessions: sessions, logger: logger}
	}

	conf := oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})

	return newProvider(conf, verifier, sessions, logger)
}

func newProvider(conf oauth2.Config, verifier *oidc.IDTokenVerifier, sessions *SessionManager, logger *slog.Logger) *Provider {
	return &Provider{
		config:   conf,
		verifier: verifier,
		sessions: sessions,
		enabled:  true,
		logger:   logger,
	}
}

// Enabled reports whether sign-in is available.
func (p *Provider) Enabled() bool {
	return p != nil && p.enabled
}

// HandleLogin redirects to the identity provider.
func (p *Provider) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !p.Enabled() {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	state, token, err := p.sessions.IssueState(safeReturn(r.URL.Query().Get("return")))
	if err != nil {
		p.logger.Error("failed to create login state", "error", err)
		http.Error(w, "Failed to start sign-in", http.StatusInternalServerError)
		return
	}
	p.sessions.SetState(w, token)
	http.Redirect(w, r, p.config.AuthCodeURL(state), http.StatusFound)
}

// HandleCallback completes the code exchange and opens a session.
func (p *Provider) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if !p.Enabled() {
		http.Error(w, "Auth disabled", http.StatusBadRequest)
		return
	}

	cookie, err := r.Cookie(StateCookie)
	if err != nil {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}
	returnTo, err := p.sessions.CheckState(cookie.Value, r.URL.Query().Get("state"))
	if err != nil {
		p.logger.Warn("login state rejected", "error", err)
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}
	p.sessions.ClearState(w)

	if msg := r.URL.Query().Get("error"); msg != "" {
		p.logger.Warn("identity provider returned an error", "error", msg)
		http.Redirect(w, r, returnTo, http.StatusFound)
		return
	}

	oauth2Token, err := p.config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		p.logger.Error("failed to exchange token", "error", err)
		http.Error(w, "Failed to exchange token", http.StatusBadGateway)
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		http.Error(w, "Missing ID token", http.StatusBadGateway)
		return
	}

	subject, name, err := p.verify(r.Context(), rawIDToken)
	if err != nil {
		p.logger.Warn("ID token verification failed", "error", err)
		http.Error(w, "Invalid ID token", http.StatusUnauthorized)
		return
	}

	session, err := p.sessions.Issue(subject, name)
	if err != nil {
		p.logger.Error("failed to sign session", "error", err)
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}
	p.sessions.SetSession(w, session)
	p.logger.Info("user signed in", "user", subject)

	http.Redirect(w, r, returnTo, http.StatusFound)
}

func (p *Provider) verify(ctx context.Context, rawIDToken string) (subject, name string, err error) {
	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", "", err
	}

	var claims struct {
		Sub               string `json:"sub"`
		Name              string `json:"name"`
		Email             string `json:"email"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", "", err
	}
	if claims.Sub == "" {
		return "", "", errors.New("ID token has no subject")
	}

	name = claims.Name
	if name == "" {
		name = claims.PreferredUsername
	}
	if name == "" {
		name = claims.Email
	}
	return claims.Sub, name, nil
}

// HandleLogout drops the session.
func (p *Provider) HandleLogout(w http.ResponseWriter, r *http.Request) {
	p.sessions.ClearSession(w)
	http.Redirect(w, r, safeReturn(r.URL.Query().Get("return")), http.StatusFound)
}

// safeReturn keeps only same-site absolute paths.
func safeReturn(path string) string {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return "/"
	}
	return path
}
