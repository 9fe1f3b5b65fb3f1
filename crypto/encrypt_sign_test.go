package crypto

import (
	"bytes"
	"io"
	"strings"
	"testing"

	openpgp "github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/pgpseal/pgpseal/constants"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

func encryptString(t *testing.T, pipeline SignEncryptPipeline, plaintext string) []byte {
	t.Helper()
	var out bytes.Buffer
	err := pipeline.EncryptAndSign(strings.NewReader(plaintext), nopWriteCloser{&out})
	require.NoError(t, err)
	return out.Bytes()
}

// decryptAndVerify reads message with the secret ring and returns the
// plaintext. It fails the test if decryption or signature verification
// fails.
func decryptAndVerify(t *testing.T, message io.Reader, ring openpgp.EntityList) string {
	t.Helper()
	md, err := openpgp.ReadMessage(message, ring, nil, nil)
	require.NoError(t, err)
	require.True(t, md.IsEncrypted)
	require.True(t, md.IsSigned)

	plaintext, err := io.ReadAll(md.UnverifiedBody)
	require.NoError(t, err)
	require.NoError(t, md.SignatureError)
	require.NotNil(t, md.SignedBy)
	return string(plaintext)
}

func TestEncryptAndSignRoundTrip(t *testing.T) {
	material := testKeyRing(t)
	pipeline, err := NewSignEncryptBuilder().
		Recipients(material.PublicKeyRing()).
		SigningKeyRings(material.SecretKeyRing()).
		SignerUserId("test@pgpseal.local").
		New()
	require.NoError(t, err)

	message := encryptString(t, pipeline, testMessageString)

	block, err := armor.Decode(bytes.NewReader(message))
	require.NoError(t, err)
	assert.Equal(t, constants.PGPMessageHeader, block.Type)

	plaintext := decryptAndVerify(t, block.Body, material.SecretKeyRing())
	assert.Equal(t, testMessageString, plaintext)
}

func TestEncryptAndSignRoundTripRSA(t *testing.T) {
	if testing.Short() {
		t.Skip("RSA key generation is slow")
	}
	config, err := SimpleRSAKeyRing("rsa test <rsa@pgpseal.local>", RSA3072)
	require.NoError(t, err)

	pipeline, err := NewSignEncryptBuilder().
		Recipients(config.PublicKeyRing()).
		SigningKeyRings(config.SecretKeyRing()).
		SignerUserId("rsa@pgpseal.local").
		New()
	require.NoError(t, err)

	message := encryptString(t, pipeline, "hello world")

	block, err := armor.Decode(bytes.NewReader(message))
	require.NoError(t, err)
	plaintext := decryptAndVerify(t, block.Body, config.SecretKeyRing())
	assert.Equal(t, "hello world", plaintext)
}

func TestEncryptAndSignBinaryOutput(t *testing.T) {
	material := testKeyRing(t)
	pipeline, err := NewSignEncryptBuilder().
		Recipients(material.PublicKeyRing()).
		SigningKeyRings(material.SecretKeyRing()).
		SignerUserId("test@pgpseal.local").
		Armor(false).
		New()
	require.NoError(t, err)

	message := encryptString(t, pipeline, testMessageString)
	assert.False(t, bytes.HasPrefix(message, []byte("-----BEGIN")))

	plaintext := decryptAndVerify(t, bytes.NewReader(message), material.SecretKeyRing())
	assert.Equal(t, testMessageString, plaintext)
}

func TestEncryptAndSignWithoutCompression(t *testing.T) {
	material := testKeyRing(t)
	pipeline, err := NewSignEncryptBuilder().
		Recipients(material.PublicKeyRing()).
		SigningKeyRings(material.SecretKeyRing()).
		SignerUserId("test@pgpseal.local").
		Compression(constants.NoCompression).
		New()
	require.NoError(t, err)

	message := encryptString(t, pipeline, testMessageString)

	block, err := armor.Decode(bytes.NewReader(message))
	require.NoError(t, err)
	plaintext := decryptAndVerify(t, block.Body, material.SecretKeyRing())
	assert.Equal(t, testMessageString, plaintext)
}

func TestEncryptAndSignDistinctCiphertexts(t *testing.T) {
	material := testKeyRing(t)
	pipeline, err := NewSignEncryptBuilder().
		Recipients(material.PublicKeyRing()).
		SigningKeyRings(material.SecretKeyRing()).
		SignerUserId("test@pgpseal.local").
		New()
	require.NoError(t, err)

	first := encryptString(t, pipeline, testMessageString)
	second := encryptString(t, pipeline, testMessageString)

	// A fresh session key is drawn per message.
	assert.NotEqual(t, first, second)
}

func TestEncryptAndSignLargePlaintext(t *testing.T) {
	material := testKeyRing(t)
	pipeline, err := NewSignEncryptBuilder().
		Recipients(material.PublicKeyRing()).
		SigningKeyRings(material.SecretKeyRing()).
		SignerUserId("test@pgpseal.local").
		New()
	require.NoError(t, err)

	// Spans multiple lock-step chunks.
	plaintext := strings.Repeat("0123456789abcdef", 3<<14)
	message := encryptString(t, pipeline, plaintext)

	block, err := armor.Decode(bytes.NewReader(message))
	require.NoError(t, err)
	decrypted := decryptAndVerify(t, block.Body, material.SecretKeyRing())
	assert.Equal(t, plaintext, decrypted)
}

func TestEncryptAndSignProtectedSigningKey(t *testing.T) {
	locked := freshECCKeyRing(t, "locked <locked@pgpseal.local>", PassphraseFromString("hunter2"))
	recipient := testKeyRing(t)

	pipeline, err := NewSignEncryptBuilder().
		Recipients(recipient.PublicKeyRing()).
		SigningKeyRings(locked.SecretKeyRing()).
		SignerUserId("locked@pgpseal.local").
		Passphrase(PassphraseFromString("hunter2")).
		New()
	require.NoError(t, err)

	message := encryptString(t, pipeline, testMessageString)

	// Verification needs the signer's public ring alongside the
	// recipient's secret ring.
	verifyRing := append(openpgp.EntityList{}, recipient.SecretKeyRing()...)
	verifyRing = append(verifyRing, locked.PublicKeyRing()...)
	block, err := armor.Decode(bytes.NewReader(message))
	require.NoError(t, err)
	plaintext := decryptAndVerify(t, block.Body, verifyRing)
	assert.Equal(t, testMessageString, plaintext)
}

func TestNewRejectsWrongPassphrase(t *testing.T) {
	locked := freshECCKeyRing(t, "locked <locked@pgpseal.local>", PassphraseFromString("hunter2"))

	_, err := NewSignEncryptBuilder().
		Recipients(locked.PublicKeyRing()).
		SigningKeyRings(locked.SecretKeyRing()).
		SignerUserId("locked@pgpseal.local").
		Passphrase(PassphraseFromString("wrong")).
		New()
	require.Error(t, err)

	var passphraseErr *PassphraseError
	assert.ErrorAs(t, err, &passphraseErr)
}

func TestNewRejectsMissingPassphrase(t *testing.T) {
	locked := freshECCKeyRing(t, "locked <locked@pgpseal.local>", PassphraseFromString("hunter2"))

	_, err := NewSignEncryptBuilder().
		Recipients(locked.PublicKeyRing()).
		SigningKeyRings(locked.SecretKeyRing()).
		SignerUserId("locked@pgpseal.local").
		New()
	require.Error(t, err)

	var passphraseErr *PassphraseError
	assert.ErrorAs(t, err, &passphraseErr)
}

func TestNewRejectsDisabledIntegrityProtection(t *testing.T) {
	material := testKeyRing(t)

	_, err := NewSignEncryptBuilder().
		Recipients(material.PublicKeyRing()).
		SigningKeyRings(material.SecretKeyRing()).
		SignerUserId("test@pgpseal.local").
		IntegrityProtection(false).
		New()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedAlgorithm))
}

func TestNewRejectsRingWithoutEncryptionKey(t *testing.T) {
	signOnly, err := NewKeyRingBuilder().
		WithMasterKey(
			NewKeySpec(EdDSA()).
				AllowKeyToBeUsedFor(KeyFlagCertify, KeyFlagSign).
				WithDefaultAlgorithms()).
		WithPrimaryUserId("signonly <signonly@pgpseal.local>").
		WithoutPassphrase().
		Build()
	require.NoError(t, err)

	_, err = NewSignEncryptBuilder().
		Recipients(signOnly.PublicKeyRing()).
		SigningKeyRings(signOnly.SecretKeyRing()).
		SignerUserId("signonly@pgpseal.local").
		New()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoEncryptionKey))
}

func TestNewRejectsUnknownSigner(t *testing.T) {
	material := testKeyRing(t)

	_, err := NewSignEncryptBuilder().
		Recipients(material.PublicKeyRing()).
		SigningKeyRings(material.SecretKeyRing()).
		SignerUserId("nobody@nowhere").
		New()
	require.Error(t, err)

	var notFound *SigningKeyNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestNewRejectsUnknownAlgorithmCodes(t *testing.T) {
	material := testKeyRing(t)

	_, err := NewSignEncryptBuilder().
		Recipients(material.PublicKeyRing()).
		SigningKeyRings(material.SecretKeyRing()).
		SignerUserId("test@pgpseal.local").
		HashAlgorithm(int8(42)).
		New()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedAlgorithm))

	_, err = NewSignEncryptBuilder().
		Recipients(material.PublicKeyRing()).
		SigningKeyRings(material.SecretKeyRing()).
		SignerUserId("test@pgpseal.local").
		SymmetricAlgorithm(int8(42)).
		New()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedAlgorithm))
}
