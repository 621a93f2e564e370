package halo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/tier3tech/hectic-ai-support/internal/config"
	apperrors "github.com/tier3tech/hectic-ai-support/pkg/util"
)

const defaultExpiresIn = 3600

// TokenSource fetches and caches an OAuth2 client-credentials bearer token.
// The cached token is reused until its expiry minus a safety margin; refreshes
// are serialized so concurrent callers never race a double refresh.
type TokenSource struct {
	cfg     config.HaloConfig
	httpCli *http.Client
	logger  *zap.Logger
	now     func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenSource builds a token source against the configured tenant.
func NewTokenSource(cfg config.HaloConfig, logger *zap.Logger) *TokenSource {
	return &TokenSource{
		cfg:     cfg,
		httpCli: &http.Client{Timeout: cfg.RequestTimeout()},
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the time source. Tests use this to simulate expiry
// without waiting.
func (ts *TokenSource) WithClock(now func() time.Time) *TokenSource {
	ts.now = now
	return ts
}

// Token returns a valid bearer token, refreshing it when the cached one is
// absent or inside the safety margin. A non-200 from the identity provider is
// an auth error and is never retried here: the run is over.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && ts.now().Before(ts.expiry) {
		return ts.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", ts.cfg.ClientID)
	form.Set("client_secret", ts.cfg.ClientSecret)
	form.Set("scope", ts.cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.cfg.BaseURL+"/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpCli.Do(req)
	if err != nil {
		return "", &apperrors.APIError{Code: apperrors.CodeAuth, Message: "token request failed", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewAuthError(resp.StatusCode, string(body))
	}

	var tokenData struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokenData); err != nil {
		return "", apperrors.NewAuthError(resp.StatusCode, string(body))
	}
	if tokenData.AccessToken == "" {
		return "", apperrors.NewAuthError(resp.StatusCode, string(body))
	}
	if tokenData.ExpiresIn <= 0 {
		tokenData.ExpiresIn = defaultExpiresIn
	}

	ts.token = tokenData.AccessToken
	ts.expiry = ts.now().Add(time.Duration(tokenData.ExpiresIn)*time.Second - ts.cfg.TokenSafetyMargin())

	// HaloPSA issues JWTs; when the token carries an earlier exp claim than
	// the advertised lifetime, trust the claim.
	if claimExpiry, ok := jwtExpiry(tokenData.AccessToken); ok {
		withMargin := claimExpiry.Add(-ts.cfg.TokenSafetyMargin())
		if withMargin.Before(ts.expiry) {
			ts.expiry = withMargin
		}
	}

	ts.logger.Info("retrieved new access token", zap.Time("expiry", ts.expiry))
	return ts.token, nil
}

// jwtExpiry extracts the exp claim without verifying the signature; the
// signature belongs to the vendor and we only consume the token.
func jwtExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
