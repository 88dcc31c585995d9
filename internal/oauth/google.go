// Package oauth verifies Google sign-ins, either from a client-supplied ID token
// or from the server-side redirect flow.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rrishiddh/portfolio-project-backend/pkg/logger"
	"go.uber.org/zap"
)

const GoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

var (
	ErrInvalidGoogleToken = errors.New("invalid google token")
	ErrMissingEmail       = errors.New("google account has no email")

	googleIssuers = map[string]bool{
		"accounts.google.com":         true,
		"https://accounts.google.com": true,
	}
)

// Profile is the verified Google account of the caller.
type Profile struct {
	Subject       string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwt.RegisteredClaims
}

// GoogleVerifier checks Google ID tokens against Google's published signing keys.
type GoogleVerifier struct {
	clientID string
	keyfunc  jwt.Keyfunc
	jwks     *keyfunc.JWKS
}

// NewGoogleVerifier fetches Google's JWKS and keeps it refreshed in the background.
func NewGoogleVerifier(clientID string) (*GoogleVerifier, error) {
	jwks, err := keyfunc.Get(GoogleJWKSURL, keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			logger.Log.Warn("Failed to refresh Google signing keys", zap.Error(err))
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch google jwks: %w", err)
	}

	return &GoogleVerifier{clientID: clientID, keyfunc: jwks.Keyfunc, jwks: jwks}, nil
}

// NewGoogleVerifierWithKeyfunc verifies against a fixed key source.
func NewGoogleVerifierWithKeyfunc(clientID string, kf jwt.Keyfunc) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, keyfunc: kf}
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	claims := &googleClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, v.keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}

	if !googleIssuers[claims.Issuer] {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidGoogleToken, claims.Issuer)
	}
	if claims.Email == "" {
		return nil, ErrMissingEmail
	}

	return &Profile{
		Subject:       claims.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		Picture:       claims.Picture,
		EmailVerified: claims.EmailVerified,
	}, nil
}

// Close stops the background key refresh.
func (v *GoogleVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}
