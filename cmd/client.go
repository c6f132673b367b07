package cmd

import (
	"fmt"

	"github.com/fuze/cli/internal/cache"
	"github.com/fuze/cli/internal/config"
	"github.com/fuze/cli/internal/session"
	"github.com/fuze/cli/pkg/api"
)

// identityCache is shared by every client a single invocation builds, so a
// create followed by a delete in the same process hits the cache.
var identityCache = cache.New()

// loadSession assembles the session: settings file for the base URL, env
// override then keyring/slot for the token. An incomplete session is not an
// error here; client calls fail with the precise sentinel.
func loadSession() (session.Session, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return session.Session{}, cfg, err
	}

	token := config.TokenOverride()
	if token == "" {
		slot, err := config.TokenFilePath()
		if err != nil {
			return session.Session{}, cfg, err
		}
		token, err = session.LoadToken(slot)
		if err != nil {
			return session.Session{}, cfg, fmt.Errorf("load stored token: %w", err)
		}
	}
	return session.Session{Token: token, APIBaseURL: cfg.APIURL}, cfg, nil
}

func newClient(sess session.Session) *api.Client {
	return api.New(sess.APIBaseURL, sess.Token, api.WithCache(identityCache))
}

// getClient builds a client for the stored session. Commands call it and
// let the client's sentinel errors explain what is missing.
func getClient() (*api.Client, error) {
	sess, _, err := loadSession()
	if err != nil {
		return nil, err
	}
	return newClient(sess), nil
}
