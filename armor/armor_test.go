package armor

import (
	"strings"
	"testing"

	"github.com/pgpseal/pgpseal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArmorUnarmorRoundTrip(t *testing.T) {
	payload := []byte("binary OpenPGP packets would go here")

	armored, err := ArmorWithType(payload, constants.PGPMessageHeader)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(armored, "-----BEGIN PGP MESSAGE-----"))

	unarmored, err := Unarmor(armored)
	require.NoError(t, err)
	assert.Equal(t, payload, unarmored)
}

func TestArmorKeyUsesPublicKeyHeader(t *testing.T) {
	armored, err := ArmorKey([]byte{0x01, 0x02})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(armored, "-----BEGIN PGP PUBLIC KEY BLOCK-----"))
}

func TestIsArmored(t *testing.T) {
	assert.True(t, IsArmored([]byte("-----BEGIN PGP MESSAGE-----\n")))
	assert.True(t, IsArmored([]byte("\n  -----BEGIN PGP PUBLIC KEY BLOCK-----")))
	assert.False(t, IsArmored([]byte{0xc1, 0x04, 0x00}))
	assert.False(t, IsArmored(nil))
}

func TestUnarmorRejectsGarbage(t *testing.T) {
	_, err := Unarmor("not armored at all")
	assert.Error(t, err)
}
