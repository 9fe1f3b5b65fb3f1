package keystore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pgpseal/pgpseal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateTestPair(t *testing.T) *crypto.KeyringConfig {
	t.Helper()
	config, err := crypto.SimpleECCKeyRing("keystore test <keystore@pgpseal.local>")
	require.NoError(t, err)
	return config
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	config := generateTestPair(t)
	dir := t.TempDir()
	publicPath := filepath.Join(dir, "public.asc")
	secretPath := filepath.Join(dir, "secret.asc")

	require.NoError(t, SavePublicKeyRing(publicPath, config.PublicKeyRing()))
	require.NoError(t, SaveSecretKeyRing(secretPath, config.SecretKeyRing()))

	publicRing, err := LoadPublicKeyRings(publicPath)
	require.NoError(t, err)
	secretRing, err := LoadSecretKeyRings(secretPath)
	require.NoError(t, err)

	require.Len(t, publicRing, 1)
	require.Len(t, secretRing, 1)
	assert.Equal(t, config.PublicKeyRing()[0].PrimaryKey.Fingerprint, publicRing[0].PrimaryKey.Fingerprint)
	assert.Equal(t, config.SecretKeyRing()[0].PrimaryKey.Fingerprint, secretRing[0].PrimaryKey.Fingerprint)
	assert.Len(t, secretRing[0].Subkeys, 2)
	require.NotNil(t, secretRing[0].PrivateKey)
	assert.False(t, secretRing[0].PrivateKey.Encrypted)
}

func TestSavedRingsAreArmored(t *testing.T) {
	config := generateTestPair(t)
	dir := t.TempDir()
	publicPath := filepath.Join(dir, "public.asc")

	require.NoError(t, SavePublicKeyRing(publicPath, config.PublicKeyRing()))

	data, err := os.ReadFile(publicPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("-----BEGIN PGP PUBLIC KEY BLOCK-----")))
}

func TestLoadBinaryKeyRing(t *testing.T) {
	config := generateTestPair(t)
	dir := t.TempDir()
	binaryPath := filepath.Join(dir, "public.pgp")

	var binary bytes.Buffer
	require.NoError(t, config.PublicKeyRing()[0].Serialize(&binary))
	require.NoError(t, os.WriteFile(binaryPath, binary.Bytes(), 0o600))

	ring, err := LoadPublicKeyRings(binaryPath)
	require.NoError(t, err)
	require.Len(t, ring, 1)
	assert.Equal(t, config.PublicKeyRing()[0].PrimaryKey.Fingerprint, ring[0].PrimaryKey.Fingerprint)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadPublicKeyRings(filepath.Join(t.TempDir(), "missing.asc"))
	assert.Error(t, err)
}

func TestLoadProtectedSecretRingStaysLocked(t *testing.T) {
	config, err := crypto.SimpleECCKeyRingWithPassphrase(
		"locked <locked@pgpseal.local>", crypto.PassphraseFromString("hunter2"))
	require.NoError(t, err)

	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret.asc")
	require.NoError(t, SaveSecretKeyRing(secretPath, config.SecretKeyRing()))

	ring, err := LoadSecretKeyRings(secretPath)
	require.NoError(t, err)
	require.Len(t, ring, 1)
	require.NotNil(t, ring[0].PrivateKey)
	assert.True(t, ring[0].PrivateKey.Encrypted)
	require.NoError(t, ring[0].PrivateKey.Decrypt([]byte("hunter2")))
}
