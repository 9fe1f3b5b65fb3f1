package crypto

import (
	"time"

	openpgp "github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pgpseal/pgpseal/constants"
	"github.com/pgpseal/pgpseal/internal"
	"github.com/pgpseal/pgpseal/profile"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// SignEncryptBuilder assembles the configuration of a
// SignEncryptPipeline. New resolves the recipient encryption key and
// the signing key and unlocks the latter; any resolution failure
// fails construction, the pipeline is immutable afterwards.
type SignEncryptBuilder struct {
	recipients     openpgp.EntityList
	secretKeyRings openpgp.EntityList
	signerUserId   string
	passphrase     *Passphrase
	hashCode       *int8
	cipherCode     *int8
	compression    int8
	armored        bool
	integrity      bool
	profile        *profile.Custom
	clock          Clock
	logger         zerolog.Logger
}

// NewSignEncryptBuilder starts a pipeline build with the default
// profile: armored output, integrity protection, and the profile's
// hash, cipher, and compression choices.
func NewSignEncryptBuilder() *SignEncryptBuilder {
	return NewSignEncryptBuilderWithProfile(profile.Default())
}

// NewSignEncryptBuilderWithProfile starts a pipeline build with the
// given profile.
func NewSignEncryptBuilderWithProfile(p *profile.Custom) *SignEncryptBuilder {
	return &SignEncryptBuilder{
		compression: constants.DefaultCompression,
		armored:     true,
		integrity:   true,
		profile:     p,
		clock:       time.Now,
		logger:      zerolog.Nop(),
	}
}

// Recipients sets the public key ring the message is encrypted to.
// The first encryption-capable key in ring iteration order is used.
func (b *SignEncryptBuilder) Recipients(recipients openpgp.EntityList) *SignEncryptBuilder {
	b.recipients = recipients
	return b
}

// SigningKeyRings sets the secret key ring collection the signing key
// is resolved from.
func (b *SignEncryptBuilder) SigningKeyRings(rings openpgp.EntityList) *SignEncryptBuilder {
	b.secretKeyRings = rings
	return b
}

// SignerUserId sets the user id selector for signing key resolution.
// The selector matches by substring and must match exactly one ring.
func (b *SignEncryptBuilder) SignerUserId(selector string) *SignEncryptBuilder {
	b.signerUserId = selector
	return b
}

// Passphrase sets the passphrase that unlocks the resolved signing
// key. Defaults to the empty passphrase for unprotected keys.
func (b *SignEncryptBuilder) Passphrase(passphrase *Passphrase) *SignEncryptBuilder {
	b.passphrase = passphrase
	return b
}

// HashAlgorithm overrides the profile's signature hash with the given
// OpenPGP hash algorithm code.
func (b *SignEncryptBuilder) HashAlgorithm(code int8) *SignEncryptBuilder {
	b.hashCode = &code
	return b
}

// SymmetricAlgorithm overrides the profile's cipher with the given
// OpenPGP symmetric algorithm code.
func (b *SignEncryptBuilder) SymmetricAlgorithm(code int8) *SignEncryptBuilder {
	b.cipherCode = &code
	return b
}

// Compression selects the compression layer, one of the
// constants.*Compression codes.
func (b *SignEncryptBuilder) Compression(code int8) *SignEncryptBuilder {
	b.compression = code
	return b
}

// Armor selects armored or binary output. Defaults to armored.
func (b *SignEncryptBuilder) Armor(armored bool) *SignEncryptBuilder {
	b.armored = armored
	return b
}

// IntegrityProtection selects modification-detection protection.
// Defaults to enabled; disabling it is rejected by New, the primitive
// layer no longer writes unprotected encrypted packets.
func (b *SignEncryptBuilder) IntegrityProtection(enabled bool) *SignEncryptBuilder {
	b.integrity = enabled
	return b
}

// Logger sets the logger used for per-call debug timings.
func (b *SignEncryptBuilder) Logger(logger zerolog.Logger) *SignEncryptBuilder {
	b.logger = logger
	return b
}

// Clock overrides the time source used for session keys, literal
// packet timestamps, and signature creation times.
func (b *SignEncryptBuilder) Clock(clock Clock) *SignEncryptBuilder {
	b.clock = clock
	return b
}

// New resolves the configuration into a ready pipeline.
func (b *SignEncryptBuilder) New() (SignEncryptPipeline, error) {
	if !b.integrity {
		return nil, errors.Wrap(ErrUnsupportedAlgorithm, "integrity protection cannot be disabled")
	}
	if len(b.recipients) == 0 {
		return nil, errors.New("pgpseal: no recipient key ring provided")
	}

	var recipientKey *packet.PublicKey
	for _, e := range b.recipients {
		if key, ok := firstEncryptionKey(e); ok {
			recipientKey = key
			break
		}
	}
	if recipientKey == nil {
		return nil, ErrNoEncryptionKey
	}

	signingEntity, err := resolveSigningRing(b.secretKeyRings, b.signerUserId)
	if err != nil {
		return nil, err
	}
	signKey, err := signingKey(signingEntity, b.signerUserId)
	if err != nil {
		return nil, err
	}

	passphrase := b.passphrase
	if passphrase == nil {
		passphrase = EmptyPassphrase()
	}
	if signKey.Encrypted {
		if passphrase.IsEmpty() {
			return nil, &PassphraseError{Err: errors.New("signing key is protected but no passphrase given")}
		}
		if err := signKey.Decrypt(passphrase.Bytes()); err != nil {
			return nil, &PassphraseError{Err: err}
		}
	}

	hash := b.profile.Hash
	if b.hashCode != nil {
		if hash, err = hashFromCode(*b.hashCode); err != nil {
			return nil, err
		}
	}
	cipher := b.profile.CipherEncryption
	if b.cipherCode != nil {
		if cipher, err = cipherFromCode(*b.cipherCode); err != nil {
			return nil, err
		}
	}
	compression, err := compressionFromCode(b.compression, b.profile.CompressionAlgorithm)
	if err != nil {
		return nil, err
	}

	return &signEncryptHandle{
		recipientKey:      recipientKey,
		signingEntity:     signingEntity,
		signingKey:        signKey,
		signerUserId:      firstUserId(signingEntity),
		hash:              hash,
		cipher:            cipher,
		compression:       compression,
		compressionConfig: b.profile.CompressionConfiguration,
		armored:           b.armored,
		armorHeaders:      internal.ArmorHeaders,
		clock:             b.clock,
		logger:            b.logger,
	}, nil
}
