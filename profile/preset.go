package profile

import (
	"crypto"

	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// Default returns a custom profile that supports features
// that are widely implemented.
func Default() *Custom {
	return RFC4880()
}

// RFC4880 returns a custom profile for this library
// that conforms with the algorithms in RFC4880.
func RFC4880() *Custom {
	return &Custom{
		Name:                 "rfc4880",
		Hash:                 crypto.SHA256,
		CertificationHash:    crypto.SHA512,
		CipherEncryption:     packet.CipherAES256,
		CompressionAlgorithm: packet.CompressionZLIB,
		CompressionConfiguration: &packet.CompressionConfig{
			Level: 6,
		},
	}
}
