package crypto

import (
	gocrypto "crypto"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"

	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pgpseal/pgpseal/constants"
	"github.com/pkg/errors"
)

func hashFromCode(code int8) (gocrypto.Hash, error) {
	switch code {
	case constants.HashSHA1:
		return gocrypto.SHA1, nil
	case constants.HashSHA224:
		return gocrypto.SHA224, nil
	case constants.HashSHA256:
		return gocrypto.SHA256, nil
	case constants.HashSHA384:
		return gocrypto.SHA384, nil
	case constants.HashSHA512:
		return gocrypto.SHA512, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedAlgorithm, "hash algorithm code %d", code)
	}
}

func cipherFromCode(code int8) (packet.CipherFunction, error) {
	switch code {
	case constants.SymmetricTripleDES:
		return packet.Cipher3DES, nil
	case constants.SymmetricCAST5:
		return packet.CipherCAST5, nil
	case constants.SymmetricAES128:
		return packet.CipherAES128, nil
	case constants.SymmetricAES192:
		return packet.CipherAES192, nil
	case constants.SymmetricAES256:
		return packet.CipherAES256, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedAlgorithm, "symmetric algorithm code %d", code)
	}
}

func compressionFromCode(code int8, fallback packet.CompressionAlgo) (packet.CompressionAlgo, error) {
	switch code {
	case constants.NoCompression:
		return packet.CompressionNone, nil
	case constants.DefaultCompression:
		return fallback, nil
	case constants.ZIPCompression:
		return packet.CompressionZIP, nil
	case constants.ZLIBCompression:
		return packet.CompressionZLIB, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedAlgorithm, "compression algorithm code %d", code)
	}
}
