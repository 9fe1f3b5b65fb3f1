package crypto

import (
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pgpseal/pgpseal/constants"
)

// KeyFlag describes a capability a generated key may be used for.
// The flags map to the OpenPGP key flags subpacket (RFC 4880 §5.2.3.21).
type KeyFlag uint8

const (
	// KeyFlagCertify allows the key to certify other keys.
	KeyFlagCertify KeyFlag = 1 << iota
	// KeyFlagSign allows the key to sign data.
	KeyFlagSign
	// KeyFlagEncryptCommunications allows the key to encrypt communications.
	KeyFlagEncryptCommunications
	// KeyFlagEncryptStorage allows the key to encrypt storage.
	KeyFlagEncryptStorage
	// KeyFlagAuthenticate allows the key to be used for authentication.
	KeyFlagAuthenticate
)

func (f KeyFlag) has(flag KeyFlag) bool {
	return f&flag != 0
}

// RSALength is the modulus length in bits of a generated RSA key.
type RSALength int

const (
	RSA2048 RSALength = 2048
	RSA3072 RSALength = 3072
	RSA4096 RSALength = 4096
	RSA8192 RSALength = 8192
)

// Curve identifies an elliptic curve for ECDSA and ECDH keys.
type Curve = packet.Curve

const (
	CurveNistP256 = packet.CurveNistP256
	CurveNistP384 = packet.CurveNistP384
	CurveNistP521 = packet.CurveNistP521
	Curve25519    = packet.Curve25519
)

// KeyAlgorithm describes the asymmetric algorithm and parameters of a
// key to generate.
type KeyAlgorithm struct {
	algo  packet.PublicKeyAlgorithm
	bits  int
	curve packet.Curve
}

// RSA returns the algorithm description of an RSA key with the given
// modulus length.
func RSA(length RSALength) KeyAlgorithm {
	return KeyAlgorithm{algo: packet.PubKeyAlgoRSA, bits: int(length)}
}

// ECDSA returns the algorithm description of an ECDSA signing key on
// the given curve.
func ECDSA(curve Curve) KeyAlgorithm {
	return KeyAlgorithm{algo: packet.PubKeyAlgoECDSA, curve: curve}
}

// ECDH returns the algorithm description of an ECDH encryption key on
// the given curve.
func ECDH(curve Curve) KeyAlgorithm {
	return KeyAlgorithm{algo: packet.PubKeyAlgoECDH, curve: curve}
}

// EdDSA returns the algorithm description of an EdDSA signing key on
// curve 25519.
func EdDSA() KeyAlgorithm {
	return KeyAlgorithm{algo: packet.PubKeyAlgoEdDSA, curve: packet.Curve25519}
}

// KeySpec describes one key to be generated: the algorithm, the
// capability flags, and the hashed-subpacket policy bound into its
// self or binding signature.
type KeySpec struct {
	algorithm           KeyAlgorithm
	flags               KeyFlag
	inheritedSubpackets bool
	preferredSymmetric  []uint8
	preferredHash       []uint8
}

// Algorithm returns the algorithm description of the key.
func (s KeySpec) Algorithm() KeyAlgorithm {
	return s.algorithm
}

// Flags returns the capability flags of the key.
func (s KeySpec) Flags() KeyFlag {
	return s.flags
}

// IsInheritedSubpackets reports whether the key is bound with the
// ring's default binding signature instead of its own subpacket policy.
func (s KeySpec) IsInheritedSubpackets() bool {
	return s.inheritedSubpackets
}

// KeySpecBuilder assembles a KeySpec.
type KeySpecBuilder struct {
	spec KeySpec
}

// NewKeySpec starts a key spec for the given algorithm.
func NewKeySpec(algorithm KeyAlgorithm) *KeySpecBuilder {
	return &KeySpecBuilder{spec: KeySpec{algorithm: algorithm}}
}

// AllowKeyToBeUsedFor adds the given capability flags to the spec.
func (b *KeySpecBuilder) AllowKeyToBeUsedFor(flags ...KeyFlag) *KeySpecBuilder {
	for _, flag := range flags {
		b.spec.flags |= flag
	}
	return b
}

// WithDefaultAlgorithms finishes the spec with the default preferred
// algorithm subpackets (AES over SHA-2).
func (b *KeySpecBuilder) WithDefaultAlgorithms() KeySpec {
	b.spec.preferredSymmetric = []uint8{
		uint8(packet.CipherAES256),
		uint8(packet.CipherAES192),
		uint8(packet.CipherAES128),
	}
	b.spec.preferredHash = []uint8{
		uint8(constants.HashSHA256),
		uint8(constants.HashSHA512),
		uint8(constants.HashSHA384),
	}
	return b.spec
}

// WithInheritedSubpackets finishes the spec such that the key is bound
// using the ring's default subkey-binding signature, without an
// explicit subpacket policy of its own.
func (b *KeySpecBuilder) WithInheritedSubpackets() KeySpec {
	b.spec.inheritedSubpackets = true
	return b.spec
}
