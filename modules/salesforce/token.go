package salesforce

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/nh916/salesforce-healthcare-mcp/common"
	"github.com/nh916/salesforce-healthcare-mcp/common/model"
	"github.com/nh916/salesforce-healthcare-mcp/config"
)

// TokenProvider owns the OAuth refresh-token exchange. It produces a
// currently-believed-valid access token on demand and knows nothing about
// business operations.
type TokenProvider interface {
	// CurrentToken returns the cached token, performing the refresh
	// exchange only when no token exists yet. It never inspects the
	// token for expiry; absence is the only trigger.
	CurrentToken(ctx context.Context) (*model.AccessToken, error)

	// ForceRefresh unconditionally exchanges the refresh token and
	// replaces the cached token. Concurrent calls are coalesced into a
	// single exchange whose result every caller observes.
	ForceRefresh(ctx context.Context) (*model.AccessToken, error)
}

// tokenProvider implements TokenProvider on top of the standard oauth2
// refresh-token grant.
type tokenProvider struct {
	conf         *oauth2.Config
	refreshToken string
	instanceURL  string
	httpClient   *http.Client
	logger       *zap.Logger

	mu    sync.RWMutex
	token *model.AccessToken

	group singleflight.Group
}

// NewTokenProvider constructs a TokenProvider from loaded credentials.
// The httpClient is used for the token endpoint only; pass nil to use a
// default client with the configured timeout.
func NewTokenProvider(cfg *config.Config, httpClient *http.Client, logger *zap.Logger) TokenProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tokenProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		refreshToken: cfg.RefreshToken,
		instanceURL:  strings.TrimRight(cfg.InstanceURL, "/"),
		httpClient:   httpClient,
		logger:       logger,
	}
}

func (p *tokenProvider) CurrentToken(ctx context.Context) (*model.AccessToken, error) {
	p.mu.RLock()
	token := p.token
	p.mu.RUnlock()

	if token != nil {
		return token, nil
	}
	return p.ForceRefresh(ctx)
}

func (p *tokenProvider) ForceRefresh(ctx context.Context) (*model.AccessToken, error) {
	// All concurrent detections of an invalid session funnel into one
	// exchange; everyone gets the token it produced.
	result, err, _ := p.group.Do("refresh", func() (interface{}, error) {
		token, err := p.exchange(ctx)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.token = token
		p.mu.Unlock()
		p.logger.Info("salesforce access token refreshed",
			zap.String("instance_url", token.InstanceURL),
			zap.Time("acquired_at", token.AcquiredAt))
		return token, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.AccessToken), nil
}

// exchange posts the refresh-token grant to the token endpoint. Any
// failure is an AuthError: a broken exchange is fatal for the operation
// that triggered it, whether it was the lazy first fetch or a forced
// refresh.
func (p *tokenProvider) exchange(ctx context.Context) (*model.AccessToken, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	src := p.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: p.refreshToken})
	raw, err := src.Token()
	if err != nil {
		return nil, &common.AuthError{Message: "token refresh exchange failed", Err: err}
	}
	if raw.AccessToken == "" {
		return nil, &common.AuthError{Message: "token endpoint response missing access_token"}
	}

	token := &model.AccessToken{
		Value:       raw.AccessToken,
		Type:        raw.TokenType,
		InstanceURL: p.instanceURL,
		AcquiredAt:  time.Now(),
	}
	// Salesforce may return instance_url; prefer it when present.
	if iu, ok := raw.Extra("instance_url").(string); ok && iu != "" {
		token.InstanceURL = strings.TrimRight(iu, "/")
	}
	return token, nil
}
