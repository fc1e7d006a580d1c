package dashboard

import (
	"crypto/ed25519"
	"crypto/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gossh "golang.org/x/crypto/ssh"
)

func newTestKey(t *testing.T) gossh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	key, err := gossh.NewPublicKey(pub)
	require.NoError(t, err)
	return key
}

func TestParseAuthorizedKeys(t *testing.T) {
	alice := newTestKey(t)
	anon := newTestKey(t)
	stranger := newTestKey(t)

	line := func(k gossh.PublicKey, comment string) string {
		out := string(gossh.MarshalAuthorizedKey(k))
		if comment == "" {
			return out
		}
		return out[:len(out)-1] + " " + comment + "\n"
	}
	raw := "# operators\n\n" + line(alice, "alice@desk") + line(anon, "")

	keys, err := ParseAuthorizedKeys([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 2, keys.Len())

	name, ok := keys.Lookup(alice)
	assert.True(t, ok)
	assert.Equal(t, "alice@desk", name)

	name, ok = keys.Lookup(anon)
	assert.True(t, ok)
	assert.Equal(t, "operator", name)

	_, ok = keys.Lookup(stranger)
	assert.False(t, ok)
}

func TestParseAuthorizedKeysRejectsGarbage(t *testing.T) {
	_, err := ParseAuthorizedKeys([]byte("ssh-ed25519 not-base64!!\n"))
	assert.Error(t, err)
}

func TestLoadAuthorizedKeysMissingFileRejectsAll(t *testing.T) {
	keys, err := LoadAuthorizedKeys(filepath.Join(t.TempDir(), "authorized_keys"))
	require.NoError(t, err)
	assert.Equal(t, 0, keys.Len())

	_, ok := keys.Lookup(newTestKey(t))
	assert.False(t, ok)
}
