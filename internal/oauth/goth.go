package oauth

import (
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/rrishiddh/portfolio-project-backend/internal/config"
)

const (
	ProviderGoogle = "google"
	sessionMaxAge  = 10 * 60
)

// SetupGoth registers the Google provider and the cookie store gothic keeps
// the OAuth state in between the redirect and the callback.
func SetupGoth(cfg config.GoogleConfig, secure bool) {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.MaxAge(sessionMaxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	gothic.Store = store

	goth.UseProviders(google.New(cfg.ClientID, cfg.ClientSecret, cfg.CallbackURL, "email", "profile"))
}

// ProfileFromGoth maps a completed gothic login onto a Profile.
func ProfileFromGoth(u goth.User) (*Profile, error) {
	if u.Email == "" {
		return nil, ErrMissingEmail
	}

	name := u.Name
	if name == "" {
		name = u.NickName
	}

	verified, _ := u.RawData["verified_email"].(bool)
	if v, ok := u.RawData["email_verified"].(bool); ok {
		verified = v
	}

	return &Profile{
		Subject:       u.UserID,
		Email:         u.Email,
		Name:          name,
		Picture:       u.AvatarURL,
		EmailVerified: verified,
	}, nil
}
