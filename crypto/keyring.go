package crypto

import (
	"bytes"
	"encoding/hex"
	"io"

	openpgp "github.com/ProtonMail/go-crypto/openpgp"
	"github.com/pgpseal/pgpseal/armor"
	"github.com/pgpseal/pgpseal/constants"
	"github.com/pkg/errors"
)

// KeyRingPair is the output of a key ring build: one public key ring
// and one secret key ring, each holding the master key and its subkeys.
type KeyRingPair struct {
	public openpgp.EntityList
	secret openpgp.EntityList
}

// PublicKeyRing returns the public entities of the pair.
func (p *KeyRingPair) PublicKeyRing() openpgp.EntityList {
	return p.public
}

// SecretKeyRing returns the secret entities of the pair.
func (p *KeyRingPair) SecretKeyRing() openpgp.EntityList {
	return p.secret
}

// PublicFingerprints returns the hex fingerprints of all keys in the
// public ring, master key first, in packet order.
func (p *KeyRingPair) PublicFingerprints() []string {
	return ringFingerprints(p.public)
}

// SecretFingerprints returns the hex fingerprints of all keys in the
// secret ring, master key first, in packet order.
func (p *KeyRingPair) SecretFingerprints() []string {
	return ringFingerprints(p.secret)
}

func ringFingerprints(ring openpgp.EntityList) []string {
	var fingerprints []string
	for _, e := range ring {
		fingerprints = append(fingerprints, hex.EncodeToString(e.PrimaryKey.Fingerprint))
		for _, sub := range e.Subkeys {
			fingerprints = append(fingerprints, hex.EncodeToString(sub.PublicKey.Fingerprint))
		}
	}
	return fingerprints
}

// KeyringConfig wraps a generated KeyRingPair together with the
// secret-key access semantics selected at build time.
type KeyringConfig struct {
	pair      KeyRingPair
	protected bool
}

// Pair returns the generated key ring pair.
func (c *KeyringConfig) Pair() *KeyRingPair {
	return &c.pair
}

// PublicKeyRing returns the public entities of the pair.
func (c *KeyringConfig) PublicKeyRing() openpgp.EntityList {
	return c.pair.public
}

// SecretKeyRing returns the secret entities of the pair.
func (c *KeyringConfig) SecretKeyRing() openpgp.EntityList {
	return c.pair.secret
}

// IsPassphraseProtected reports whether the secret ring was generated
// with passphrase protection.
func (c *KeyringConfig) IsPassphraseProtected() bool {
	return c.protected
}

// ArmoredPublicKeyRing returns the armored public key ring as a string.
func (c *KeyringConfig) ArmoredPublicKeyRing() (string, error) {
	var b bytes.Buffer
	if err := c.WriteArmoredPublicKeyRing(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ArmoredSecretKeyRing returns the armored secret key ring as a string.
func (c *KeyringConfig) ArmoredSecretKeyRing() (string, error) {
	var b bytes.Buffer
	if err := c.WriteArmoredSecretKeyRing(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteArmoredPublicKeyRing writes the armored public key ring to w.
func (c *KeyringConfig) WriteArmoredPublicKeyRing(w io.Writer) error {
	aw, err := armor.ArmorWriterWithType(w, constants.PublicKeyHeader)
	if err != nil {
		return err
	}
	for _, e := range c.pair.public {
		if err := e.Serialize(aw); err != nil {
			_ = aw.Close()
			return errors.Wrap(err, "pgpseal: unable to serialize public key ring")
		}
	}
	return aw.Close()
}

// WriteArmoredSecretKeyRing writes the armored secret key ring to w.
func (c *KeyringConfig) WriteArmoredSecretKeyRing(w io.Writer) error {
	aw, err := armor.ArmorWriterWithType(w, constants.PrivateKeyHeader)
	if err != nil {
		return err
	}
	for _, e := range c.pair.secret {
		if err := e.SerializePrivateWithoutSigning(aw, nil); err != nil {
			_ = aw.Close()
			return errors.Wrap(err, "pgpseal: unable to serialize secret key ring")
		}
	}
	return aw.Close()
}
