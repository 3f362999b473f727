package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func writeTestKey(t *testing.T, passphrase string) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	var block *pem.Block
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, "startime-test")
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "startime-test", []byte(passphrase))
	}
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0600))
	return path
}

func TestSealOpenPlaintext(t *testing.T) {
	em := NewEncryptionManager(EncryptionNone, "")
	require.NoError(t, em.Initialize())

	sealed, err := em.Seal("tok-123")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", sealed)

	opened, err := em.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", opened)
}

func TestSealOpenSSHKey(t *testing.T) {
	keyPath := writeTestKey(t, "")

	em := NewEncryptionManager(EncryptionSSHKey, keyPath)
	require.NoError(t, em.Initialize())

	sealed, err := em.Seal("tok-123")
	require.NoError(t, err)
	assert.NotEqual(t, "tok-123", sealed)

	// a second manager on the same key derives the same AES key
	other := NewEncryptionManager(EncryptionSSHKey, keyPath)
	require.NoError(t, other.Initialize())

	opened, err := other.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", opened)
}

func TestEncryptedKeyNeedsPassphrase(t *testing.T) {
	keyPath := writeTestKey(t, "hunter2")

	encrypted, err := IsSSHKeyEncrypted(keyPath)
	require.NoError(t, err)
	assert.True(t, encrypted)

	em := NewEncryptionManager(EncryptionSSHKey, keyPath)
	err = em.Initialize()
	assert.True(t, errors.Is(err, ErrPassphraseRequired))

	em.SetPassphrase("hunter2")
	require.NoError(t, em.Initialize())
}

func TestSealBeforeInitialize(t *testing.T) {
	em := NewEncryptionManager(EncryptionSSHKey, "/nonexistent")
	_, err := em.Seal("x")
	assert.Error(t, err)
}
