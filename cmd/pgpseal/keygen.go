package main

import (
	"fmt"
	"os"

	"github.com/pgpseal/pgpseal/crypto"
	"github.com/pgpseal/pgpseal/keystore"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

func runKeygen(args []string) int {
	flags := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
	uid := flags.String("uid", "", "primary user id, e.g. \"Alice <alice@example.org>\"")
	rsaBits := flags.Int("rsa", 0, "generate an RSA key ring with the given modulus length")
	ecc := flags.Bool("ecc", false, "generate a NIST P-256 key ring")
	protect := flags.Bool("protect", false, "lock the secret ring under a passphrase (prompted)")
	publicPath := flags.String("public", "", "output path for the armored public key ring")
	secretPath := flags.String("secret", "", "output path for the armored secret key ring")
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "pgpseal keygen: %v\n", err)
		return 2
	}

	logger := newLogger(*verbose)

	if *uid == "" || *publicPath == "" || *secretPath == "" {
		fmt.Fprintln(os.Stderr, "pgpseal keygen: --uid, --public and --secret are required")
		return 2
	}
	if *ecc == (*rsaBits != 0) {
		fmt.Fprintln(os.Stderr, "pgpseal keygen: pass exactly one of --rsa and --ecc")
		return 2
	}

	passphrase := crypto.EmptyPassphrase()
	if *protect {
		var err error
		passphrase, err = promptNewPassphrase()
		if err != nil {
			logger.Error().Err(err).Msg("passphrase prompt failed")
			return 1
		}
	}

	var config *crypto.KeyringConfig
	var err error
	if *ecc {
		config, err = crypto.SimpleECCKeyRingWithPassphrase(*uid, passphrase)
	} else {
		config, err = crypto.SimpleRSAKeyRingWithPassphrase(*uid, crypto.RSALength(*rsaBits), passphrase)
	}
	if err != nil {
		logger.Error().Err(err).Msg("key ring generation failed")
		return 1
	}

	if err := keystore.SavePublicKeyRing(*publicPath, config.PublicKeyRing()); err != nil {
		logger.Error().Err(err).Msg("unable to save public key ring")
		return 1
	}
	if err := keystore.SaveSecretKeyRing(*secretPath, config.SecretKeyRing()); err != nil {
		logger.Error().Err(err).Msg("unable to save secret key ring")
		return 1
	}

	for _, fingerprint := range config.Pair().PublicFingerprints() {
		logger.Info().Str("fingerprint", fingerprint).Msg("generated key")
	}
	logger.Info().
		Str("public", *publicPath).
		Str("secret", *secretPath).
		Bool("protected", config.IsPassphraseProtected()).
		Msg("key ring pair written")
	return 0
}

// promptNewPassphrase reads the passphrase twice from the terminal and
// requires both reads to match.
func promptNewPassphrase() (*crypto.Passphrase, error) {
	first, err := promptPassphrase("Passphrase: ")
	if err != nil {
		return nil, err
	}
	second, err := promptPassphrase("Repeat passphrase: ")
	if err != nil {
		first.Clear()
		return nil, err
	}
	if string(first.Bytes()) != string(second.Bytes()) {
		first.Clear()
		second.Clear()
		return nil, fmt.Errorf("passphrases do not match")
	}
	second.Clear()
	return first, nil
}

func promptPassphrase(prompt string) (*crypto.Passphrase, error) {
	stdin := int(os.Stdin.Fd())
	if !term.IsTerminal(stdin) {
		return nil, fmt.Errorf("stdin is not a terminal, cannot prompt for passphrase")
	}
	fmt.Fprint(os.Stderr, prompt)
	data, err := term.ReadPassword(stdin)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return crypto.NewPassphrase(data), nil
}
