package profile

import (
	"crypto"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/stretchr/testify/assert"
)

func TestDefaultProfileAlgorithms(t *testing.T) {
	p := Default()

	assert.Equal(t, crypto.SHA256, p.EncryptionConfig().Hash())
	assert.Equal(t, packet.CipherAES256, p.EncryptionConfig().Cipher())
	assert.Equal(t, crypto.SHA256, p.SignConfig().Hash())
	assert.Equal(t, crypto.SHA512, p.CertificationConfig().Hash())
	assert.Equal(t, packet.CompressionZLIB, p.CompressionAlgorithm)
}
