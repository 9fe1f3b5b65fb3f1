// Package keystore loads and saves OpenPGP key rings from the
// filesystem. Armoring is auto-detected on load, saved rings are
// always armored.
package keystore

import (
	"bytes"
	"os"

	openpgp "github.com/ProtonMail/go-crypto/openpgp"
	"github.com/pgpseal/pgpseal/armor"
	"github.com/pgpseal/pgpseal/constants"
	"github.com/pkg/errors"
)

// LoadPublicKeyRings reads an armored or binary public key ring file.
func LoadPublicKeyRings(path string) (openpgp.EntityList, error) {
	return loadKeyRings(path)
}

// LoadSecretKeyRings reads an armored or binary secret key ring file.
// Encrypted key material stays locked, the caller unlocks it with the
// passphrase when needed.
func LoadSecretKeyRings(path string) (openpgp.EntityList, error) {
	return loadKeyRings(path)
}

func loadKeyRings(path string) (openpgp.EntityList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "pgpseal: unable to read key ring file")
	}
	var ring openpgp.EntityList
	if armor.IsArmored(data) {
		ring, err = openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	} else {
		ring, err = openpgp.ReadKeyRing(bytes.NewReader(data))
	}
	if err != nil {
		return nil, errors.Wrap(err, "pgpseal: unable to parse key ring")
	}
	return ring, nil
}

// SavePublicKeyRing writes ring to path as an armored public key block.
func SavePublicKeyRing(path string, ring openpgp.EntityList) error {
	return saveKeyRing(path, ring, constants.PublicKeyHeader, func(e *openpgp.Entity, w *bytes.Buffer) error {
		return e.Serialize(w)
	})
}

// SaveSecretKeyRing writes ring to path as an armored private key
// block. Self-signatures are written as stored, not re-signed, so
// locked keys round-trip without the passphrase.
func SaveSecretKeyRing(path string, ring openpgp.EntityList) error {
	return saveKeyRing(path, ring, constants.PrivateKeyHeader, func(e *openpgp.Entity, w *bytes.Buffer) error {
		return e.SerializePrivateWithoutSigning(w, nil)
	})
}

func saveKeyRing(path string, ring openpgp.EntityList, armorType string, serialize func(*openpgp.Entity, *bytes.Buffer) error) error {
	var body bytes.Buffer
	for _, e := range ring {
		if err := serialize(e, &body); err != nil {
			return errors.Wrap(err, "pgpseal: unable to serialize key ring")
		}
	}
	armored, err := armor.ArmorWithType(body.Bytes(), armorType)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(armored), 0o600); err != nil {
		return errors.Wrap(err, "pgpseal: unable to write key ring file")
	}
	return nil
}
