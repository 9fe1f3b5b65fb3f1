// Package profile provides algorithm profiles for pgpseal.
package profile

import (
	"crypto"

	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// Custom represents a profile for setting algorithm parameters
// for generating keys, signing, and encrypting messages.
// Use one of the pre-defined profiles if possible,
// i.e., profile.Default() or profile.RFC4880().
type Custom struct {
	// Name of the profile.
	Name string
	// Hash defines the hash algorithm used for message signatures.
	Hash crypto.Hash
	// CertificationHash defines the hash algorithm used for
	// self-certification and subkey-binding signatures.
	CertificationHash crypto.Hash
	// CipherEncryption defines the cipher used for message encryption.
	CipherEncryption packet.CipherFunction
	// CompressionAlgorithm defines the compression algorithm used
	// inside encrypted messages.
	CompressionAlgorithm packet.CompressionAlgo
	// CompressionConfiguration defines the compression level, if any.
	CompressionConfiguration *packet.CompressionConfig
}

// EncryptionConfig returns the configuration for the message encryption layer.
func (p *Custom) EncryptionConfig() *packet.Config {
	return &packet.Config{
		DefaultHash:            p.Hash,
		DefaultCipher:          p.CipherEncryption,
		DefaultCompressionAlgo: p.CompressionAlgorithm,
		CompressionConfig:      p.CompressionConfiguration,
	}
}

// SignConfig returns the configuration for message signatures.
func (p *Custom) SignConfig() *packet.Config {
	return &packet.Config{
		DefaultHash: p.Hash,
	}
}

// CertificationConfig returns the configuration for key
// self-certification and subkey-binding signatures.
func (p *Custom) CertificationConfig() *packet.Config {
	return &packet.Config{
		DefaultHash: p.CertificationHash,
	}
}
