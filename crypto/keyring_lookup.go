package crypto

import (
	"strings"

	openpgp "github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// firstEncryptionKey returns the first encryption-capable key of the
// entity in packet order: the master key first, then subkeys. A key
// qualifies if its algorithm can encrypt and its self or binding
// signature does not rule out encryption use.
func firstEncryptionKey(e *openpgp.Entity) (*packet.PublicKey, bool) {
	if e.PrimaryKey.PubKeyAlgo.CanEncrypt() {
		if sig := primarySelfSignature(e); sig == nil || !sig.FlagsValid ||
			sig.FlagEncryptCommunications || sig.FlagEncryptStorage {
			return e.PrimaryKey, true
		}
	}
	for i := range e.Subkeys {
		sub := &e.Subkeys[i]
		if !sub.PublicKey.PubKeyAlgo.CanEncrypt() {
			continue
		}
		if sub.Sig == nil || !sub.Sig.FlagsValid ||
			sub.Sig.FlagEncryptCommunications || sub.Sig.FlagEncryptStorage {
			return sub.PublicKey, true
		}
	}
	return nil, false
}

// resolveSigningRing finds the single secret ring whose user id
// contains the selector. Zero matches and multiple matches are
// resolution failures, a first match is never silently chosen.
func resolveSigningRing(rings openpgp.EntityList, selector string) (*openpgp.Entity, error) {
	var match *openpgp.Entity
	matches := 0
	for _, e := range rings {
		if entityMatchesUserId(e, selector) {
			matches++
			if match == nil {
				match = e
			}
		}
	}
	if matches == 0 {
		return nil, &SigningKeyNotFoundError{Selector: selector}
	}
	if matches > 1 {
		return nil, &AmbiguousSigningKeyError{Selector: selector, Matches: matches}
	}
	return match, nil
}

func entityMatchesUserId(e *openpgp.Entity, selector string) bool {
	for _, identity := range e.Identities {
		if identity.UserId != nil && strings.Contains(identity.UserId.Id, selector) {
			return true
		}
	}
	return false
}

// signingKey returns the signing-capable secret key of the entity:
// the master key if its self-signature allows signing, otherwise the
// first signing subkey.
func signingKey(e *openpgp.Entity, selector string) (*packet.PrivateKey, error) {
	if e.PrivateKey != nil && e.PrimaryKey.PubKeyAlgo.CanSign() {
		if sig := primarySelfSignature(e); sig == nil || !sig.FlagsValid || sig.FlagSign {
			return e.PrivateKey, nil
		}
	}
	for i := range e.Subkeys {
		sub := &e.Subkeys[i]
		if sub.PrivateKey == nil || !sub.PublicKey.PubKeyAlgo.CanSign() {
			continue
		}
		if sub.Sig != nil && sub.Sig.FlagsValid && sub.Sig.FlagSign {
			return sub.PrivateKey, nil
		}
	}
	return nil, &SigningKeyNotFoundError{Selector: selector}
}

func primarySelfSignature(e *openpgp.Entity) *packet.Signature {
	for _, identity := range e.Identities {
		if identity.SelfSignature != nil {
			return identity.SelfSignature
		}
	}
	return nil
}

// firstUserId returns the first user id of the entity, or the empty
// string if the entity carries none.
func firstUserId(e *openpgp.Entity) string {
	for _, identity := range e.Identities {
		if identity.UserId != nil && identity.UserId.Id != "" {
			return identity.UserId.Id
		}
	}
	return ""
}
