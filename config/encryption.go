package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/ssh"
)

// EncryptionMethod defines how the cached session token is stored
type EncryptionMethod string

const (
	EncryptionNone   EncryptionMethod = "plaintext"
	EncryptionSSHKey EncryptionMethod = "ssh_key"
)

// EncryptionManager seals small secrets (the backend session token) before
// they reach the local store.
type EncryptionManager struct {
	method     EncryptionMethod
	sshKeyPath string
	passphrase string
	aesKey     []byte
}

func NewEncryptionManager(method EncryptionMethod, sshKeyPath string) *EncryptionManager {
	return &EncryptionManager{
		method:     method,
		sshKeyPath: sshKeyPath,
	}
}

// SetPassphrase sets the passphrase for decrypting the SSH key
func (e *EncryptionManager) SetPassphrase(passphrase string) {
	e.passphrase = passphrase
}

// Initialize loads the SSH key and derives the AES key. Returns
// ErrPassphraseRequired when the key is encrypted and no passphrase is set.
func (e *EncryptionManager) Initialize() error {
	switch e.method {
	case EncryptionNone:
		return nil

	case EncryptionSSHKey:
		encrypted, err := IsSSHKeyEncrypted(e.sshKeyPath)
		if err != nil {
			return fmt.Errorf("failed to check SSH key: %w", err)
		}

		if DebugLog != nil {
			DebugLog.Printf("[EncryptionManager] Initialize: key encrypted=%v", encrypted)
		}

		if encrypted && e.passphrase == "" {
			return ErrPassphraseRequired
		}

		var signer ssh.Signer
		if encrypted {
			signer, err = LoadSSHPrivateKeyWithPassphrase(e.sshKeyPath, e.passphrase)
		} else {
			signer, err = LoadSSHPrivateKey(e.sshKeyPath)
		}
		if err != nil {
			return fmt.Errorf("failed to load SSH key: %w", err)
		}

		aesKey, err := DeriveAESKeyFromSSH(signer)
		if err != nil {
			return fmt.Errorf("failed to derive encryption key: %w", err)
		}
		e.aesKey = aesKey

		return nil

	default:
		return fmt.Errorf("unknown encryption method: %s", e.method)
	}
}

// Seal encrypts a secret and returns it in a form safe to store as text
func (e *EncryptionManager) Seal(secret string) (string, error) {
	switch e.method {
	case EncryptionNone:
		return secret, nil

	case EncryptionSSHKey:
		if e.aesKey == nil {
			return "", fmt.Errorf("encryption manager not initialized")
		}
		sealed, err := encryptAESGCM([]byte(secret), e.aesKey)
		if err != nil {
			return "", err
		}
		return base64.StdEncoding.EncodeToString(sealed), nil

	default:
		return "", fmt.Errorf("unknown encryption method: %s", e.method)
	}
}

// Open reverses Seal
func (e *EncryptionManager) Open(stored string) (string, error) {
	switch e.method {
	case EncryptionNone:
		return stored, nil

	case EncryptionSSHKey:
		if e.aesKey == nil {
			return "", fmt.Errorf("encryption manager not initialized")
		}
		data, err := base64.StdEncoding.DecodeString(stored)
		if err != nil {
			return "", fmt.Errorf("stored secret is not base64: %w", err)
		}
		plain, err := decryptAESGCM(data, e.aesKey)
		if err != nil {
			return "", err
		}
		return string(plain), nil

	default:
		return "", fmt.Errorf("unknown encryption method: %s", e.method)
	}
}

func (e *EncryptionManager) Method() EncryptionMethod {
	return e.method
}

// encryptAESGCM encrypts data using AES-256-GCM
// Format: [nonce (12 bytes)][ciphertext + tag]
func encryptAESGCM(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptAESGCM(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	plaintext, err := gcm.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}

// DeriveAESKeyFromSSH derives a 32-byte AES-256 key from an SSH key signature.
// Only deterministic signature schemes (ed25519, RSA PKCS#1 v1.5) give a stable key.
func DeriveAESKeyFromSSH(signer ssh.Signer) ([]byte, error) {
	signature, err := signer.Sign(rand.Reader, []byte("startime-token-key-v1"))
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}

	hash := sha256.Sum256(signature.Blob)
	return hash[:], nil
}
