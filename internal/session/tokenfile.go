// ABOUTME: Persisted bearer token storage in the XDG config directory
// ABOUTME: The single piece of durable client-side state

package session

import (
	"os"
	"path/filepath"
	"strings"
)

// TokenFile stores the bearer token string in a single file under the
// config directory. It satisfies api.TokenSource: the request
// interceptor reads Token before every call and Clear removes the file
// synchronously on 401.
type TokenFile struct {
	configDir string
}

// NewTokenFile creates a token store rooted at configDir
func NewTokenFile(configDir string) *TokenFile {
	return &TokenFile{configDir: configDir}
}

func (t *TokenFile) path() string {
	return filepath.Join(t.configDir, "token")
}

// Token returns the stored token, or "" when none is persisted
func (t *TokenFile) Token() string {
	data, err := os.ReadFile(t.path())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Save persists the token, creating the config directory if needed
func (t *TokenFile) Save(token string) error {
	if err := os.MkdirAll(t.configDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(t.path(), []byte(token), 0600)
}

// Clear removes the stored token. Safe to call when nothing is stored.
func (t *TokenFile) Clear() {
	_ = os.Remove(t.path())
}
