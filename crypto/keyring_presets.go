package crypto

// SimpleRSAKeyRing builds an RSA key ring with the recommended default
// capability policy: a master key for certification and signing, one
// subkey for encryption, and one subkey for authentication. The flag
// assignment determines what downstream OpenPGP consumers may legally
// use each key for and must not be changed lightly.
func SimpleRSAKeyRing(userId string, length RSALength) (*KeyringConfig, error) {
	return SimpleRSAKeyRingWithPassphrase(userId, length, EmptyPassphrase())
}

// SimpleRSAKeyRingWithPassphrase is SimpleRSAKeyRing with the secret
// ring locked under passphrase. The passphrase is consumed by the
// build and cleared before returning.
func SimpleRSAKeyRingWithPassphrase(userId string, length RSALength, passphrase *Passphrase) (*KeyringConfig, error) {
	return NewKeyRingBuilder().
		WithSubKey(
			NewKeySpec(RSA(length)).
				AllowKeyToBeUsedFor(KeyFlagEncryptStorage, KeyFlagEncryptCommunications).
				WithDefaultAlgorithms()).
		WithSubKey(
			NewKeySpec(RSA(length)).
				AllowKeyToBeUsedFor(KeyFlagAuthenticate).
				WithDefaultAlgorithms()).
		WithMasterKey(
			NewKeySpec(RSA(length)).
				AllowKeyToBeUsedFor(KeyFlagCertify, KeyFlagSign).
				WithDefaultAlgorithms()).
		WithPrimaryUserId(userId).
		WithPassphrase(passphrase).
		Build()
}

// SimpleECCKeyRing builds a NIST P-256 key ring with the same
// capability policy as SimpleRSAKeyRing: ECDSA master key for
// certification and signing, ECDH subkey for encryption, and an ECDSA
// subkey for authentication.
func SimpleECCKeyRing(userId string) (*KeyringConfig, error) {
	return SimpleECCKeyRingWithPassphrase(userId, EmptyPassphrase())
}

// SimpleECCKeyRingWithPassphrase is SimpleECCKeyRing with the secret
// ring locked under passphrase.
func SimpleECCKeyRingWithPassphrase(userId string, passphrase *Passphrase) (*KeyringConfig, error) {
	return NewKeyRingBuilder().
		WithSubKey(
			NewKeySpec(ECDH(CurveNistP256)).
				AllowKeyToBeUsedFor(KeyFlagEncryptStorage, KeyFlagEncryptCommunications).
				WithDefaultAlgorithms()).
		WithSubKey(
			NewKeySpec(ECDSA(CurveNistP256)).
				AllowKeyToBeUsedFor(KeyFlagAuthenticate).
				WithDefaultAlgorithms()).
		WithMasterKey(
			NewKeySpec(ECDSA(CurveNistP256)).
				AllowKeyToBeUsedFor(KeyFlagCertify, KeyFlagSign).
				WithDefaultAlgorithms()).
		WithPrimaryUserId(userId).
		WithPassphrase(passphrase).
		Build()
}
