package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	gossh "golang.org/x/crypto/ssh"
)

// AuthorizedKeys maps SHA256 key fingerprints to the comment of the
// authorized_keys line, used as the display name.
type AuthorizedKeys struct {
	byFingerprint map[string]string
}

// LoadAuthorizedKeys reads an OpenSSH authorized_keys file. A missing file
// yields an empty set, which rejects every key.
func LoadAuthorizedKeys(path string) (*AuthorizedKeys, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("authorized keys file not found, all SSH logins will be rejected")
		return &AuthorizedKeys{byFingerprint: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read authorized keys: %w", err)
	}
	return ParseAuthorizedKeys(raw)
}

func ParseAuthorizedKeys(raw []byte) (*AuthorizedKeys, error) {
	keys := &AuthorizedKeys{byFingerprint: map[string]string{}}
	for i, line := range bytes.Split(raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		key, comment, _, _, err := gossh.ParseAuthorizedKey(line)
		if err != nil {
			return nil, fmt.Errorf("authorized keys line %d: %w", i+1, err)
		}
		name := strings.TrimSpace(comment)
		if name == "" {
			name = "operator"
		}
		keys.byFingerprint[gossh.FingerprintSHA256(key)] = name
	}
	return keys, nil
}

// Lookup returns the name registered for key.
func (k *AuthorizedKeys) Lookup(key gossh.PublicKey) (string, bool) {
	if k == nil || key == nil {
		return "", false
	}
	name, ok := k.byFingerprint[gossh.FingerprintSHA256(key)]
	return name, ok
}

func (k *AuthorizedKeys) Len() int {
	if k == nil {
		return 0
	}
	return len(k.byFingerprint)
}
