package crypto

import (
	"testing"

	openpgp "github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSigningRingBySubstring(t *testing.T) {
	alice := freshECCKeyRing(t, "Alice <alice@pgpseal.local>", nil)
	bob := freshECCKeyRing(t, "Bob <bob@pgpseal.local>", nil)
	rings := append(openpgp.EntityList{}, alice.SecretKeyRing()...)
	rings = append(rings, bob.SecretKeyRing()...)

	e, err := resolveSigningRing(rings, "bob@")
	require.NoError(t, err)
	assert.Equal(t, "Bob <bob@pgpseal.local>", firstUserId(e))
}

func TestResolveSigningRingNotFound(t *testing.T) {
	config := testKeyRing(t)

	_, err := resolveSigningRing(config.SecretKeyRing(), "nobody@nowhere")
	require.Error(t, err)

	var notFound *SigningKeyNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nobody@nowhere", notFound.Selector)
}

func TestResolveSigningRingAmbiguous(t *testing.T) {
	first := freshECCKeyRing(t, "Dup One <dup@pgpseal.local>", nil)
	second := freshECCKeyRing(t, "Dup Two <dup2@pgpseal.local>", nil)
	rings := append(openpgp.EntityList{}, first.SecretKeyRing()...)
	rings = append(rings, second.SecretKeyRing()...)

	_, err := resolveSigningRing(rings, "Dup")
	require.Error(t, err)

	var ambiguous *AmbiguousSigningKeyError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, 2, ambiguous.Matches)
}

func TestFirstEncryptionKeySelectsEncryptionSubKey(t *testing.T) {
	config := testKeyRing(t)
	e := config.PublicKeyRing()[0]

	key, ok := firstEncryptionKey(e)
	require.True(t, ok)
	// The ECDSA master cannot encrypt, the ECDH subkey is first in
	// packet order.
	assert.Equal(t, packet.PubKeyAlgoECDH, key.PubKeyAlgo)
	assert.Equal(t, e.Subkeys[0].PublicKey.KeyId, key.KeyId)
}

func TestFirstEncryptionKeyNoneAvailable(t *testing.T) {
	config, err := NewKeyRingBuilder().
		WithMasterKey(
			NewKeySpec(EdDSA()).
				AllowKeyToBeUsedFor(KeyFlagCertify, KeyFlagSign).
				WithDefaultAlgorithms()).
		WithPrimaryUserId("signonly <signonly@pgpseal.local>").
		WithoutPassphrase().
		Build()
	require.NoError(t, err)

	_, ok := firstEncryptionKey(config.PublicKeyRing()[0])
	assert.False(t, ok)
}

func TestSigningKeyPrefersMaster(t *testing.T) {
	config := testKeyRing(t)
	e := config.SecretKeyRing()[0]

	key, err := signingKey(e, "test")
	require.NoError(t, err)
	assert.Equal(t, e.PrimaryKey.KeyId, key.KeyId)
}

func TestSigningKeyFallsBackToSubKey(t *testing.T) {
	config, err := NewKeyRingBuilder().
		WithSubKey(
			NewKeySpec(ECDSA(CurveNistP256)).
				AllowKeyToBeUsedFor(KeyFlagSign).
				WithDefaultAlgorithms()).
		WithMasterKey(
			NewKeySpec(ECDSA(CurveNistP256)).
				AllowKeyToBeUsedFor(KeyFlagCertify).
				WithDefaultAlgorithms()).
		WithPrimaryUserId("subsign <subsign@pgpseal.local>").
		WithoutPassphrase().
		Build()
	require.NoError(t, err)

	e := config.SecretKeyRing()[0]
	key, err := signingKey(e, "subsign")
	require.NoError(t, err)
	assert.Equal(t, e.Subkeys[0].PublicKey.KeyId, key.KeyId)
}
