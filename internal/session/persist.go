package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "fuze-cli"
	keyringAccount = "token"
)

// SaveToken stores the bearer token in the OS keyring when one is
// available, and always refreshes the slot file at slotPath. The slot is
// what a running sync daemon watches, so a login must touch it even when
// the keyring write succeeds.
func SaveToken(token, slotPath string) error {
	// Best effort; headless boxes and CI have no keyring.
	_ = keyring.Set(keyringService, keyringAccount, token)

	if err := os.MkdirAll(filepath.Dir(slotPath), 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	if err := os.WriteFile(slotPath, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token slot: %w", err)
	}
	return nil
}

// LoadToken reads the stored token, keyring first, then the file fallback.
// An absent token is not an error; it returns "".
func LoadToken(fallbackPath string) (string, error) {
	tok, err := keyring.Get(keyringService, keyringAccount)
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) && fallbackPath == "" {
		return "", fmt.Errorf("read keyring: %w", err)
	}
	raw, err := os.ReadFile(fallbackPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// DeleteToken removes the token from both the keyring and the file
// fallback. Missing entries are fine.
func DeleteToken(fallbackPath string) error {
	// Keyring backends fail in odd ways when locked; the file removal below
	// runs regardless.
	_ = keyring.Delete(keyringService, keyringAccount)
	if fallbackPath == "" {
		return nil
	}
	if err := os.Remove(fallbackPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
