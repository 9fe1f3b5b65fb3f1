package main

import (
	"os"
	"strings"

	"github.com/pgpseal/pgpseal/constants"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// encryptConfig is the yaml configuration of the encrypt command. The
// passphrase field is a pointer so an explicit empty string (no
// passphrase) can be told apart from an absent field (prompt).
type encryptConfig struct {
	PublicKeyRing string  `yaml:"public_keyring"`
	SecretKeyRing string  `yaml:"secret_keyring"`
	SignerUserId  string  `yaml:"signer_uid"`
	Hash          string  `yaml:"hash"`
	Cipher        string  `yaml:"cipher"`
	Compression   string  `yaml:"compression"`
	Passphrase    *string `yaml:"passphrase"`
}

func loadEncryptConfig(path string) (*encryptConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "pgpseal: unable to read config file")
	}
	var config encryptConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "pgpseal: unable to parse config file")
	}
	if config.PublicKeyRing == "" || config.SecretKeyRing == "" {
		return nil, errors.New("pgpseal: config must set public_keyring and secret_keyring")
	}
	if config.SignerUserId == "" {
		return nil, errors.New("pgpseal: config must set signer_uid")
	}
	return &config, nil
}

// hashCode maps a config hash name to its algorithm code. An empty
// name selects the profile default.
func hashCode(name string) (int8, error) {
	switch strings.ToUpper(name) {
	case "":
		return constants.HashSHA256, nil
	case "SHA256":
		return constants.HashSHA256, nil
	case "SHA384":
		return constants.HashSHA384, nil
	case "SHA512":
		return constants.HashSHA512, nil
	case "SHA224":
		return constants.HashSHA224, nil
	default:
		return 0, errors.Errorf("pgpseal: unknown hash algorithm %q", name)
	}
}

func cipherCode(name string) (int8, error) {
	switch strings.ToUpper(name) {
	case "":
		return constants.SymmetricAES256, nil
	case "AES128":
		return constants.SymmetricAES128, nil
	case "AES192":
		return constants.SymmetricAES192, nil
	case "AES256":
		return constants.SymmetricAES256, nil
	default:
		return 0, errors.Errorf("pgpseal: unknown cipher algorithm %q", name)
	}
}

func compressionCode(name string) (int8, error) {
	switch strings.ToUpper(name) {
	case "":
		return constants.DefaultCompression, nil
	case "NONE":
		return constants.NoCompression, nil
	case "ZIP":
		return constants.ZIPCompression, nil
	case "ZLIB":
		return constants.ZLIBCompression, nil
	default:
		return 0, errors.Errorf("pgpseal: unknown compression algorithm %q", name)
	}
}
