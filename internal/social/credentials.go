// Package social posts status updates to the user's social network account.
package social

import (
	"fmt"
	"strings"

	"gpslogger/internal/state"
)

// Credentials are the four OAuth 1.0a secrets of a user app.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessKey      string
	AccessSecret   string
}

// Complete reports whether every secret is non-empty.
func (c Credentials) Complete() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" && c.AccessKey != "" && c.AccessSecret != ""
}

func LoadCredentials(s state.Store) (Credentials, error) {
	var creds Credentials
	fields := []struct {
		key string
		dst *string
	}{
		{state.KeyConsumerKey, &creds.ConsumerKey},
		{state.KeyConsumerSecret, &creds.ConsumerSecret},
		{state.KeyAccessKey, &creds.AccessKey},
		{state.KeyAccessSecret, &creds.AccessSecret},
	}
	for _, f := range fields {
		v, err := state.String(s, f.key)
		if err != nil {
			return Credentials{}, fmt.Errorf("load %s: %w", f.key, err)
		}
		*f.dst = v
	}
	return creds, nil
}

// SaveCredentials trims surrounding whitespace from pasted secrets.
func SaveCredentials(s state.Store, creds Credentials) error {
	values := map[string]string{
		state.KeyConsumerKey:    creds.ConsumerKey,
		state.KeyConsumerSecret: creds.ConsumerSecret,
		state.KeyAccessKey:      creds.AccessKey,
		state.KeyAccessSecret:   creds.AccessSecret,
	}
	for key, v := range values {
		if err := state.SetString(s, key, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}
