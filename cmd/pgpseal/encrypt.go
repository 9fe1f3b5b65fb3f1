package main

import (
	"fmt"
	"os"

	"github.com/pgpseal/pgpseal/crypto"
	"github.com/pgpseal/pgpseal/keystore"
	"github.com/spf13/pflag"
)

func runEncrypt(args []string) int {
	flags := pflag.NewFlagSet("encrypt", pflag.ContinueOnError)
	configPath := flags.String("config", "pgpseal.yml", "path to the encryption config file")
	inPath := flags.String("in", "", "plaintext input file")
	outPath := flags.String("out", "", "ciphertext output file")
	noArmor := flags.Bool("no-armor", false, "write the binary OpenPGP message instead of armored text")
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "pgpseal encrypt: %v\n", err)
		return 2
	}

	logger := newLogger(*verbose)

	if *inPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "pgpseal encrypt: --in and --out are required")
		return 2
	}

	config, err := loadEncryptConfig(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("unable to load config")
		return 1
	}

	publicRing, err := keystore.LoadPublicKeyRings(config.PublicKeyRing)
	if err != nil {
		logger.Error().Err(err).Msg("unable to load public key ring")
		return 1
	}
	secretRing, err := keystore.LoadSecretKeyRings(config.SecretKeyRing)
	if err != nil {
		logger.Error().Err(err).Msg("unable to load secret key ring")
		return 1
	}

	hash, err := hashCode(config.Hash)
	if err != nil {
		logger.Error().Err(err).Msg("invalid config")
		return 1
	}
	cipher, err := cipherCode(config.Cipher)
	if err != nil {
		logger.Error().Err(err).Msg("invalid config")
		return 1
	}
	compression, err := compressionCode(config.Compression)
	if err != nil {
		logger.Error().Err(err).Msg("invalid config")
		return 1
	}

	passphrase, err := resolvePassphrase(config)
	if err != nil {
		logger.Error().Err(err).Msg("passphrase prompt failed")
		return 1
	}

	pipeline, err := crypto.NewSignEncryptBuilder().
		Recipients(publicRing).
		SigningKeyRings(secretRing).
		SignerUserId(config.SignerUserId).
		Passphrase(passphrase).
		HashAlgorithm(hash).
		SymmetricAlgorithm(cipher).
		Compression(compression).
		Armor(!*noArmor).
		Logger(logger).
		New()
	if err != nil {
		logger.Error().Err(err).Msg("unable to build pipeline")
		return 1
	}

	input, err := os.Open(*inPath)
	if err != nil {
		logger.Error().Err(err).Msg("unable to open input")
		return 1
	}
	defer input.Close()

	output, err := os.OpenFile(*outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		logger.Error().Err(err).Msg("unable to open output")
		return 1
	}

	if err := pipeline.EncryptAndSign(input, output); err != nil {
		logger.Error().Err(err).Msg("encryption failed")
		os.Remove(*outPath)
		return 1
	}

	logger.Info().Str("in", *inPath).Str("out", *outPath).Msg("encrypted and signed")
	return 0
}

// resolvePassphrase turns the config passphrase field into a
// passphrase value: an absent field prompts on the terminal, an
// explicit value (including the empty string) is used as-is.
func resolvePassphrase(config *encryptConfig) (*crypto.Passphrase, error) {
	if config.Passphrase != nil {
		if *config.Passphrase == "" {
			return crypto.EmptyPassphrase(), nil
		}
		return crypto.PassphraseFromString(*config.Passphrase), nil
	}
	return promptPassphrase("Signing key passphrase: ")
}
